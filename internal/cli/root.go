package cli

import (
	"context"
	"io"

	availabilityrepo "cleanbook/internal/availability/repository"
	availability "cleanbook/internal/availability/service"
	bookingrepo "cleanbook/internal/bookings/repository"
	catalogrepo "cleanbook/internal/catalog/repository"
	catalog "cleanbook/internal/catalog/service"
	catalogvalidator "cleanbook/internal/catalog/validator"
	mongoMigration "cleanbook/internal/migrations/mongo"
	"cleanbook/pkg/calendar"
	"cleanbook/pkg/config"
	"cleanbook/pkg/logger"

	"github.com/spf13/cobra"
)

const ServiceName = "cleanbookctl"

// Deps is what the commands operate on.
type Deps struct {
	Grid     availability.GridService
	Catalog  catalog.CatalogService
	Bookings bookingrepo.BookingRepository
	Migrate  func(ctx context.Context) error
	Log      *logger.Logger
}

// Loader builds the dependencies for one command run. The returned func releases them.
type Loader func() (*Deps, func(), error)

func NewRoot(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cleanbookctl",
		Short:         "Operations tooling for the cleanbook store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(NewMigrateCmd(load))
	cmd.AddCommand(NewSeedServicesCmd(load))
	cmd.AddCommand(NewOpenDaysCmd(load))
	cmd.AddCommand(NewBlockSlotCmd(load))
	cmd.AddCommand(NewUnblockSlotCmd(load))
	cmd.AddCommand(NewBookingsCmd(load))
	return cmd
}

// MongoLoader connects to the configured store with the privileged client.
func MongoLoader() (*Deps, func(), error) {
	cfg := config.Load(ServiceName)
	cfg.SetStore()
	clock := calendar.NewClock(cfg.Location)

	deps := &Deps{
		Grid: availability.NewGridService(availabilityrepo.NewMongoAvailabilityRepository(cfg), clock, cfg),
		Catalog: catalog.NewCatalogService(
			catalogrepo.NewMongoServiceRepository(cfg),
			catalogvalidator.NewServiceValidator(cfg.Log),
			cfg,
		),
		Bookings: bookingrepo.NewMongoBookingRepository(cfg),
		Migrate: func(ctx context.Context) error {
			return mongoMigration.RunMigration(ctx, cfg.Client.Mongo.Database(cfg.StoreDatabaseName), cfg.Log)
		},
		Log: cfg.Log,
	}
	return deps, cfg.GracefulShutdown, nil
}

func withDeps(load Loader, fn func(ctx context.Context, deps *Deps, out io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		deps, release, err := load()
		if err != nil {
			return err
		}
		defer release()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fn(ctx, deps, cmd.OutOrStdout())
	}
}
