package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogerrors "cleanbook/internal/catalog/errors"
	"cleanbook/pkg/config"
	mongodb "cleanbook/pkg/db/mongo"
	"cleanbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Services"
)

type ServiceRepository interface {
	FindActive(ctx context.Context) ([]*model.Service, error)
	FindByID(ctx context.Context, id string) (*model.Service, error)
	FindBySlug(ctx context.Context, slug string) (*model.Service, error)
	Upsert(ctx context.Context, svc *model.Service) error
}

type mongoServiceRepository struct {
	cfg    *config.Config
	reads  *mongo.Collection
	writes *mongo.Collection
}

func NewMongoServiceRepository(cfg *config.Config) ServiceRepository {
	return &mongoServiceRepository{
		cfg:    cfg,
		reads:  cfg.Client.Public.Database(cfg.StoreDatabaseName).Collection(CollectionName),
		writes: cfg.Client.Mongo.Database(cfg.StoreDatabaseName).Collection(CollectionName),
	}
}

func (r *mongoServiceRepository) FindActive(ctx context.Context) ([]*model.Service, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "display_order", Value: 1},
		{Key: "name", Value: 1},
	})
	cursor, err := r.reads.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find services: %w", err)
	}
	defer cursor.Close(ctx)

	services := []*model.Service{}
	if err = cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("failed to decode services: %w", err)
	}
	return services, nil
}

func (r *mongoServiceRepository) findOne(ctx context.Context, filter bson.M) (*model.Service, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var svc model.Service
	if err := r.reads.FindOne(ctx, filter).Decode(&svc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	return &svc, nil
}

func (r *mongoServiceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoServiceRepository) FindBySlug(ctx context.Context, slug string) (*model.Service, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *mongoServiceRepository) Upsert(ctx context.Context, svc *model.Service) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	svc.UpdatedAt = time.Now().UTC()
	_, err := r.writes.ReplaceOne(ctx, bson.M{"_id": svc.ID}, svc, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return catalogerrors.ErrDuplicateSlug
		}
		return fmt.Errorf("failed to upsert service: %w", err)
	}
	return nil
}
