package seed

import (
	"context"
	"fmt"

	catalog "cleanbook/internal/catalog/service"
	"cleanbook/pkg/logger"
	"cleanbook/pkg/model"
)

func ptr(v float64) *float64 { return &v }

// DefaultServices is the launch catalog. Slugs are left empty and derived from the names.
func DefaultServices() []model.Service {
	return []model.Service{
		{
			ID:            "standardno-ciscenje",
			Name:          "Standardno čišćenje",
			Category:      "stan",
			Description:   "Redovito čišćenje stana ili kuće: prašina, podovi, kupaonica i kuhinja.",
			BasePrice:     60,
			MinPrice:      60,
			DurationHours: 2,
			Features:      []string{"Usisavanje i pranje podova", "Brisanje prašine", "Čišćenje kupaonice", "Čišćenje kuhinjskih površina"},
			Popular:       true,
			Active:        true,
			DisplayOrder:  1,
		},
		{
			ID:            "dubinsko-ciscenje",
			Name:          "Dubinsko čišćenje",
			Category:      "stan",
			Description:   "Temeljito čišćenje svih prostorija, uključujući teško dostupna mjesta.",
			PricePerSqm:   ptr(2.5),
			MinPrice:      120,
			DurationHours: 5,
			Features:      []string{"Sve iz standardnog čišćenja", "Čišćenje iza namještaja", "Odmašćivanje kuhinje", "Uklanjanje kamenca"},
			Popular:       true,
			Active:        true,
			DisplayOrder:  2,
		},
		{
			ID:            "ciscenje-nakon-renovacije",
			Name:          "Čišćenje nakon renovacije",
			Category:      "stan",
			Description:   "Uklanjanje građevinske prašine i ostataka nakon radova.",
			PricePerSqm:   ptr(3.5),
			MinPrice:      180,
			DurationHours: 6,
			Features:      []string{"Uklanjanje građevinske prašine", "Pranje prozora i okvira", "Čišćenje utičnica i sklopki"},
			Active:        true,
			DisplayOrder:  3,
		},
		{
			ID:            "ciscenje-ureda",
			Name:          "Čišćenje ureda",
			Category:      "poslovni prostor",
			Description:   "Čišćenje poslovnih prostora izvan radnog vremena.",
			BasePrice:     80,
			PricePerSqm:   ptr(1.8),
			MinPrice:      80,
			DurationHours: 3,
			Features:      []string{"Radne površine i podovi", "Sanitarni čvor", "Pražnjenje koševa"},
			Active:        true,
			DisplayOrder:  4,
		},
		{
			ID:            "pranje-prozora",
			Name:          "Pranje prozora",
			Category:      "dodatno",
			Description:   "Pranje stakala, okvira i klupica s unutarnje i vanjske strane.",
			BasePrice:     45,
			MinPrice:      45,
			DurationHours: 1.5,
			Features:      []string{"Stakla s obje strane", "Okviri i klupice"},
			Active:        true,
			DisplayOrder:  5,
		},
	}
}

// Services upserts the default catalog through the catalog service and returns how many
// services were written. Re-running it overwrites the entries in place.
func Services(ctx context.Context, services catalog.CatalogService, log *logger.Logger) (int, error) {
	defaults := DefaultServices()
	for i := range defaults {
		if err := services.Save(ctx, &defaults[i]); err != nil {
			return i, fmt.Errorf("failed to seed service %s: %w", defaults[i].ID, err)
		}
		log.Debug("Seeded service", "id", defaults[i].ID, "slug", defaults[i].Slug)
	}
	log.Info("Service catalog seeded", "count", len(defaults))
	return len(defaults), nil
}
