package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "cleanbook/internal/bookings/errors"
	"cleanbook/pkg/config"
	mongodb "cleanbook/pkg/db/mongo"
	"cleanbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByNumber(ctx context.Context, number string) (*model.Booking, error)
	FindByDate(ctx context.Context, date string) ([]*model.Booking, error)
	// UpdateStatus moves a booking from one status to another and returns the stored result.
	// It fails with ErrStatusChanged when the booking is no longer in status from.
	UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus, at time.Time) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type mongoBookingRepository struct {
	cfg    *config.Config
	reads  *mongo.Collection
	writes *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	return &mongoBookingRepository{
		cfg:    cfg,
		reads:  cfg.Client.Public.Database(cfg.StoreDatabaseName).Collection(CollectionName),
		writes: cfg.Client.Mongo.Database(cfg.StoreDatabaseName).Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if _, err := r.writes.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrDuplicateNumber
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) findOne(ctx context.Context, filter bson.M) (*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	if err := r.reads.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoBookingRepository) FindByNumber(ctx context.Context, number string) (*model.Booking, error) {
	return r.findOne(ctx, bson.M{"booking_number": number})
}

func (r *mongoBookingRepository) FindByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "time_slot", Value: 1},
		{Key: "team_number", Value: 1},
	})
	cursor, err := r.reads.Find(ctx, bson.M{"booking_date": date}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepository) UpdateStatus(
	ctx context.Context,
	id string,
	from, to model.BookingStatus,
	at time.Time,
) (*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	at = at.UTC().Truncate(time.Millisecond)
	set := bson.M{
		"status":     to,
		"updated_at": at,
	}
	if to == model.StatusCancelled {
		set["cancelled_at"] = at
	}

	filter := bson.M{"_id": id, "status": from}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking model.Booking
	err := r.writes.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrStatusChanged
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.writes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if result.DeletedCount == 0 {
		return bookingserrors.ErrNotFound
	}
	return nil
}
