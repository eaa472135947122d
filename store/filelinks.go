package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suzume/renamebot/types"
)

// ErrLinkNotFound is returned for unknown or expired deep-link tokens.
var ErrLinkNotFound = errors.New("file link not found or expired")

const LinkTTL = 24 * time.Hour

// CreateFileLink stores a redeemable link record with a 24h expiry.
func (s *Store) CreateFileLink(ctx context.Context, link types.FileLink) error {
	now := time.Now().UTC()
	link.CreatedAt = now
	link.ExpiresAt = now.Add(LinkTTL)
	link.Downloads = 0
	_, err := s.fileLinks.InsertOne(ctx, link)
	return err
}

// RedeemFileLink looks up a token, rejects expired records and increments
// the download counter atomically.
func (s *Store) RedeemFileLink(ctx context.Context, token string) (types.FileLink, error) {
	var link types.FileLink
	err := s.fileLinks.FindOneAndUpdate(ctx,
		bson.M{"_id": token, "expires_at": bson.M{"$gt": time.Now().UTC()}},
		bson.M{"$inc": bson.M{"downloads": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&link)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.FileLink{}, ErrLinkNotFound
	}
	if err != nil {
		return types.FileLink{}, err
	}
	return link, nil
}

// GetFileLink fetches a link without redeeming it (used by copy_link buttons).
func (s *Store) GetFileLink(ctx context.Context, token string) (types.FileLink, error) {
	var link types.FileLink
	err := s.fileLinks.FindOne(ctx,
		bson.M{"_id": token, "expires_at": bson.M{"$gt": time.Now().UTC()}},
	).Decode(&link)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.FileLink{}, ErrLinkNotFound
	}
	if err != nil {
		return types.FileLink{}, err
	}
	return link, nil
}
