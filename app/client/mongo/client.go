package mongo

import (
	"context"
	"fmt"
	"time"

	"casebot/app/config"

	"github.com/samber/do"
	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

var _ do.Shutdownable = (*Client)(nil)

// Client writes sink documents into one mongo database.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

func New(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	return Connect(ctx, cfg.Mongo)
}

func Connect(ctx context.Context, cfg config.Mongo) (*Client, error) {
	client, err := mongo.Connect(ctx, clientOptions(cfg))
	if err != nil {
		return nil, oops.In("mongo").With("database", cfg.Database).Wrapf(err, "connect")
	}

	return &Client{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// clientOptions leaves auth to the URI unless a user is configured.
func clientOptions(cfg config.Mongo) *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.URL)
	if cfg.User != "" {
		opts.SetAuth(options.Credential{
			Username:   cfg.User,
			Password:   cfg.Pass,
			AuthSource: cfg.AuthSource,
		})
	}

	return opts
}

func (c *Client) Insert(ctx context.Context, collection string, document map[string]any) error {
	if _, err := c.db.Collection(collection).InsertOne(ctx, document); err != nil {
		return fmt.Errorf("insert into %s: %w", collection, err)
	}

	return nil
}

func (c *Client) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	return c.client.Disconnect(ctx)
}
