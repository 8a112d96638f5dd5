package mongo

import (
	"context"
	"fmt"

	availability "cleanbook/internal/availability/repository"
	bookings "cleanbook/internal/bookings/repository"
	catalog "cleanbook/internal/catalog/repository"
	"cleanbook/internal/migrations/mongo/validators"
	"cleanbook/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	AvailabilityIndexes = []mongo.IndexModel{
		// The claim protocol depends on this: one row per cell.
		{
			Keys: bson.D{
				{Key: "date", Value: 1},
				{Key: "time_slot", Value: 1},
				{Key: "team_number", Value: 1},
			},
			Options: options.Index().SetName("uniq_cell").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetName("booking_id").
				SetPartialFilterExpression(bson.M{"booking_id": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "is_available", Value: 1}}},
	}

	BookingsIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "booking_number", Value: 1}},
			Options: options.Index().SetName("uniq_booking_number").SetUnique(true),
		},
		{Keys: bson.D{
			{Key: "booking_date", Value: 1},
			{Key: "time_slot", Value: 1},
			{Key: "team_number", Value: 1},
		}},
		{Keys: bson.D{{Key: "customer.email", Value: 1}}},
	}

	ServicesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("uniq_slug").SetUnique(true),
		},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "display_order", Value: 1}}},
	}
)

type Collection struct {
	Name      string
	Indexes   []mongo.IndexModel
	Validator bson.M
}

func Collections() []Collection {
	return []Collection{
		{Name: availability.CollectionName, Indexes: AvailabilityIndexes, Validator: validators.AvailabilityValidator},
		{Name: bookings.CollectionName, Indexes: BookingsIndexes, Validator: validators.BookingValidator},
		{Name: catalog.CollectionName, Indexes: ServicesIndexes, Validator: validators.ServiceValidator},
	}
}

// RunMigration creates missing collections, refreshes their validators and ensures indexes.
// It is safe to run repeatedly.
func RunMigration(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	log.Info("Running Mongo migrations", "database", db.Name())

	for _, def := range Collections() {
		if err := ensureCollection(ctx, db, def.Name, def.Validator, log); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", def.Name, err)
		}
		if err := ensureIndexes(ctx, db, def.Name, def.Indexes, log); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", def.Name, err)
		}
	}

	log.Info("All migrations applied successfully")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M, log *logger.Logger) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		log.Info("Creating collection", "collection", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	log.Info("Collection already exists, updating validator", "collection", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		log.Warn("Failed updating validator", "collection", name, "error", err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, log *logger.Logger) error {
	names, err := db.Collection(name).Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	log.Info("Ensured indexes", "collection", name, "indexes", names)
	return nil
}
