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

// IsAllowed reports allow-list membership. Owner short-circuiting happens in
// the access gate, not here.
func (s *Store) IsAllowed(ctx context.Context, userID int64) (bool, error) {
	err := s.allowed.FindOne(ctx, bson.M{"_id": userID}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// AddAllowed inserts or refreshes an allow-list entry.
func (s *Store) AddAllowed(ctx context.Context, userID int64) error {
	_, err := s.allowed.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$setOnInsert": bson.M{"added_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

// RemoveAllowed deletes an allow-list entry; removing an absent user is a
// no-op.
func (s *Store) RemoveAllowed(ctx context.Context, userID int64) error {
	_, err := s.allowed.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}

// ListAllowed returns all allow-list entries, oldest first.
func (s *Store) ListAllowed(ctx context.Context) ([]types.AllowedUser, error) {
	cur, err := s.allowed.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "added_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []types.AllowedUser
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListAllUsers returns every user id the bot has seen: allow-list members
// plus everyone with a stored thumbnail.
func (s *Store) ListAllUsers(ctx context.Context) ([]int64, error) {
	seen := make(map[int64]bool)
	var ids []int64

	collect := func(col *mongo.Collection) error {
		cur, err := col.Find(ctx, bson.M{})
		if err != nil {
			return err
		}
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var doc struct {
				ID int64 `bson:"_id"`
			}
			if err := cur.Decode(&doc); err != nil {
				continue
			}
			if !seen[doc.ID] {
				seen[doc.ID] = true
				ids = append(ids, doc.ID)
			}
		}
		return cur.Err()
	}

	if err := collect(s.allowed); err != nil {
		return nil, err
	}
	if err := collect(s.thumbnails); err != nil {
		return nil, err
	}
	return ids, nil
}
