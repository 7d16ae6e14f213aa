// MongoDB connection bootstrap.
//
// Environment (via internal/config):
//   - MONGODB_URI (default: mongodb://localhost:27017)
//   - MONGODB_DATABASE (default: streamtube)

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/streamtube/backend/internal/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	users  *mongo.Collection
}

func NewMongo(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	database := client.Database(cfg.Database)
	return &Mongo{
		client: client,
		db:     database,
		users:  database.Collection("users"),
	}, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// IsNoDocs reports whether err means the query matched no document.
func IsNoDocs(err error) bool {
	return err == mongo.ErrNoDocuments
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
