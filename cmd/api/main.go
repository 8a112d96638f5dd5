package main

import (
	availabilityhandler "cleanbook/internal/availability/handler"
	availabilityrepo "cleanbook/internal/availability/repository"
	availability "cleanbook/internal/availability/service"
	bookinghandler "cleanbook/internal/bookings/handler"
	bookingrepo "cleanbook/internal/bookings/repository"
	bookings "cleanbook/internal/bookings/service"
	bookingvalidator "cleanbook/internal/bookings/validator"
	cataloghandler "cleanbook/internal/catalog/handler"
	catalogrepo "cleanbook/internal/catalog/repository"
	catalog "cleanbook/internal/catalog/service"
	catalogvalidator "cleanbook/internal/catalog/validator"
	"cleanbook/internal/events"
	pricinghandler "cleanbook/internal/pricing/handler"
	pricing "cleanbook/internal/pricing/service"
	"cleanbook/pkg/app"
	"cleanbook/pkg/calendar"
	"cleanbook/pkg/config"
	"cleanbook/pkg/contracts"
)

const ServiceName = "cleanbook-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStore()

	cfg.Log.Info("Starting cleanbook API")
	clock := calendar.NewClock(cfg.Location)

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize booking events", "error", err)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.AddCloser(publisher)
	serverApp.SetApp(initHandlers(cfg, clock, publisher)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, clock *calendar.Clock, publisher events.Publisher) []contracts.Handler {
	catalogService := catalog.NewCatalogService(
		catalogrepo.NewMongoServiceRepository(cfg),
		catalogvalidator.NewServiceValidator(cfg.Log),
		cfg,
	)

	availabilityRepo := availabilityrepo.NewMongoAvailabilityRepository(cfg)
	queryService := availability.NewQueryService(availabilityRepo, catalogService, clock, cfg)
	reservationService := availability.NewReservationService(availabilityRepo, cfg)
	pricingService := pricing.NewPricingService(catalogService, cfg)

	bookingService := bookings.NewBookingService(
		bookingrepo.NewMongoBookingRepository(cfg),
		bookingvalidator.NewBookingValidator(cfg.Log),
		queryService,
		reservationService,
		catalogService,
		publisher,
		clock,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.StoreDatabaseName, "teams", cfg.TeamCount)
	return []contracts.Handler{
		availabilityhandler.NewAvailabilityHandler(queryService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
		cataloghandler.NewCatalogHandler(catalogService, cfg.Log),
		pricinghandler.NewPricingHandler(pricingService, cfg.Log),
	}
}
