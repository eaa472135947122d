package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suzume/renamebot/tool"
)

const (
	pingTimeout = 5 * time.Second

	colThumbnails = "thumbnails"
	colAllowed    = "allowed_users"
	colSettings   = "settings"
	colFileLinks  = "file_links"
)

// Store is the MongoDB adapter. Every operation is a single-document read or
// upsert; there are no multi-document invariants.
type Store struct {
	client     *mongo.Client
	thumbnails *mongo.Collection
	allowed    *mongo.Collection
	settings   *mongo.Collection
	fileLinks  *mongo.Collection
}

// Connect dials MongoDB, verifies the connection with a bounded ping and
// ensures the file-link TTL index.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	db := client.Database(dbName)
	s := &Store{
		client:     client,
		thumbnails: db.Collection(colThumbnails),
		allowed:    db.Collection(colAllowed),
		settings:   db.Collection(colSettings),
		fileLinks:  db.Collection(colFileLinks),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	tool.DefaultLogger.Infof("[Store] Connected to MongoDB database %s", dbName)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	// expired links are also rejected at redemption; the index just prunes.
	_, err := s.fileLinks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("failed to create file link TTL index: %w", err)
	}
	return nil
}

// Ping re-checks connectivity, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.client.Ping(pingCtx, nil)
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
