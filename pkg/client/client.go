package client

import (
	"context"
	"time"

	"cleanbook/pkg/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// Store users the keys authenticate as.
	ServiceRoleUser = "service_role"
	AnonUser        = "anon"

	disconnectTimeout = 5 * time.Second
)

type MongoOptions struct {
	URI            string
	ConnTimeout    time.Duration
	ServiceRoleKey string
	AnonKey        string
}

// Client holds the store connections. Mongo is privileged and used for writes; Public is
// read-only and serves catalog and availability reads. Public is the privileged client
// when no anon key is configured.
type Client struct {
	Mongo  *mongo.Client
	Public *mongo.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, opts MongoOptions) {
	c.Mongo = connect(log, opts.URI, opts.ConnTimeout, ServiceRoleUser, opts.ServiceRoleKey, readpref.Primary())
	c.Public = c.Mongo
	if opts.AnonKey != "" {
		c.Public = connect(log, opts.URI, opts.ConnTimeout, AnonUser, opts.AnonKey, readpref.PrimaryPreferred())
	}
}

func connect(log *logger.Logger, uri string, timeout time.Duration, user, key string, rp *readpref.ReadPref) *mongo.Client {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetReadPreference(rp).
		SetAuth(options.Credential{Username: user, Password: key})

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Fatal("Failed to connect to store",
			"error", err,
			"user", user,
		)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping store", "user", user, "error", err)
	}

	log.Info("Successfully connected to store", "user", user)
	return client
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	if c.Public != nil && c.Public != c.Mongo {
		if err := c.Public.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect public store client", "error", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect store client", "error", err)
		}
	}
}
