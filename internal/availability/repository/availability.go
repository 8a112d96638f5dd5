package repository

import (
	"context"
	"errors"
	"fmt"

	"cleanbook/pkg/config"
	mongodb "cleanbook/pkg/db/mongo"
	"cleanbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Availability"
)

// AvailabilityRepository is the availability grid. Claim and Release are each a single
// conditional update; callers never pair a read with a write to change a cell.
type AvailabilityRepository interface {
	FindByDate(ctx context.Context, date string) ([]*model.AvailabilitySlot, error)
	FindBySlot(ctx context.Context, date string, timeSlot string) ([]*model.AvailabilitySlot, error)
	FindByDateRange(ctx context.Context, fromDate string, toDate string) ([]*model.AvailabilitySlot, error)
	FindFirstOpen(ctx context.Context, fromDate string, toDate string, openSlotsOnFirstDay []string) (*model.AvailabilitySlot, error)
	FindOpenDates(ctx context.Context, fromDate string, toDate string) ([]string, error)
	CountOpen(ctx context.Context, date string) (int64, error)
	Claim(ctx context.Context, ref model.SlotRef, bookingID string) (bool, error)
	Release(ctx context.Context, bookingID string) (bool, error)
	Block(ctx context.Context, ref model.SlotRef, reason string) (bool, error)
	Unblock(ctx context.Context, ref model.SlotRef) (bool, error)
	EnsureCells(ctx context.Context, cells []*model.AvailabilitySlot) (int64, error)
}

type mongoAvailabilityRepository struct {
	cfg    *config.Config
	reads  *mongo.Collection
	writes *mongo.Collection
}

// NewMongoAvailabilityRepository reads through the public client and writes through the
// privileged one.
func NewMongoAvailabilityRepository(cfg *config.Config) AvailabilityRepository {
	return &mongoAvailabilityRepository{
		cfg:    cfg,
		reads:  cfg.Client.Public.Database(cfg.StoreDatabaseName).Collection(CollectionName),
		writes: cfg.Client.Mongo.Database(cfg.StoreDatabaseName).Collection(CollectionName),
	}
}

var slotOrder = bson.D{
	{Key: "date", Value: 1},
	{Key: "time_slot", Value: 1},
	{Key: "team_number", Value: 1},
}

func (r *mongoAvailabilityRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.AvailabilitySlot, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.reads.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability: %w", err)
	}
	defer cursor.Close(ctx)

	slots := []*model.AvailabilitySlot{}
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode availability: %w", err)
	}
	return slots, nil
}

func (r *mongoAvailabilityRepository) FindByDate(ctx context.Context, date string) ([]*model.AvailabilitySlot, error) {
	return r.find(ctx, bson.M{"date": date}, options.Find().SetSort(slotOrder))
}

func (r *mongoAvailabilityRepository) FindBySlot(ctx context.Context, date string, timeSlot string) ([]*model.AvailabilitySlot, error) {
	filter := bson.M{"date": date, "time_slot": timeSlot}
	return r.find(ctx, filter, options.Find().SetSort(slotOrder))
}

func (r *mongoAvailabilityRepository) FindByDateRange(ctx context.Context, fromDate string, toDate string) ([]*model.AvailabilitySlot, error) {
	filter := bson.M{"date": bson.M{"$gte": fromDate, "$lte": toDate}}
	return r.find(ctx, filter, options.Find().SetSort(slotOrder))
}

// FindFirstOpen returns the earliest open cell. Slot strings are zero-padded so their
// lexical order is their start-time order.
func (r *mongoAvailabilityRepository) FindFirstOpen(ctx context.Context, fromDate string, toDate string, openSlotsOnFirstDay []string) (*model.AvailabilitySlot, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"is_available": true,
		"$or": []bson.M{
			{"date": bson.M{"$gt": fromDate, "$lte": toDate}},
			{"date": fromDate, "time_slot": bson.M{"$in": openSlotsOnFirstDay}},
		},
	}

	var slot model.AvailabilitySlot
	err := r.reads.FindOne(ctx, filter, options.FindOne().SetSort(slotOrder)).Decode(&slot)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find first open slot: %w", err)
	}
	return &slot, nil
}

func (r *mongoAvailabilityRepository) FindOpenDates(ctx context.Context, fromDate string, toDate string) ([]string, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"is_available": true,
		"date":         bson.M{"$gte": fromDate, "$lte": toDate},
	}
	values, err := r.reads.Distinct(ctx, "date", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list open dates: %w", err)
	}

	dates := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			dates = append(dates, s)
		}
	}
	return dates, nil
}

func (r *mongoAvailabilityRepository) CountOpen(ctx context.Context, date string) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.reads.CountDocuments(ctx, bson.M{"date": date, "is_available": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count open slots: %w", err)
	}
	return count, nil
}

func cellFilter(ref model.SlotRef) bson.M {
	return bson.M{
		"date":        ref.Date,
		"time_slot":   ref.TimeSlot,
		"team_number": ref.TeamNumber,
	}
}

// Claim flips an open, unowned cell to held-by-bookingID in one conditional update.
// false means the cell was not open at the moment of the update.
func (r *mongoAvailabilityRepository) Claim(ctx context.Context, ref model.SlotRef, bookingID string) (bool, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := cellFilter(ref)
	filter["is_available"] = true
	filter["booking_id"] = nil

	update := bson.M{
		"$set": bson.M{
			"is_available": false,
			"booking_id":   bookingID,
		},
	}

	result, err := r.writes.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to claim slot: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoAvailabilityRepository) Release(ctx context.Context, bookingID string) (bool, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"booking_id": bookingID, "is_available": false}
	update := bson.M{
		"$set":   bson.M{"is_available": true},
		"$unset": bson.M{"booking_id": ""},
	}

	result, err := r.writes.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to release slot: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoAvailabilityRepository) Block(ctx context.Context, ref model.SlotRef, reason string) (bool, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := cellFilter(ref)
	filter["is_available"] = true
	filter["booking_id"] = nil

	update := bson.M{"$set": bson.M{"is_available": false, "blocked_reason": reason}}

	result, err := r.writes.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to block slot: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

func (r *mongoAvailabilityRepository) Unblock(ctx context.Context, ref model.SlotRef) (bool, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := cellFilter(ref)
	filter["blocked_reason"] = bson.M{"$exists": true}
	filter["booking_id"] = nil

	update := bson.M{
		"$set":   bson.M{"is_available": true},
		"$unset": bson.M{"blocked_reason": ""},
	}

	result, err := r.writes.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to unblock slot: %w", err)
	}
	return result.ModifiedCount == 1, nil
}

// EnsureCells inserts the given cells when missing and never touches existing ones.
func (r *mongoAvailabilityRepository) EnsureCells(ctx context.Context, cells []*model.AvailabilitySlot) (int64, error) {
	if len(cells) == 0 {
		return 0, nil
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(cells))
	for _, c := range cells {
		ref := model.SlotRef{Date: c.Date, TimeSlot: c.TimeSlot, TeamNumber: c.TeamNumber}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(cellFilter(ref)).
			SetUpdate(bson.M{"$setOnInsert": bson.M{"is_available": c.IsAvailable}}).
			SetUpsert(true))
	}

	result, err := r.writes.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to ensure availability cells: %w", err)
	}
	return result.UpsertedCount, nil
}
