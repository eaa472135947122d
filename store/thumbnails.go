package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suzume/renamebot/types"
)

// GetThumbnail returns the stored thumbnail file id for a user, "" when none.
func (s *Store) GetThumbnail(ctx context.Context, userID int64) (string, error) {
	var rec types.ThumbnailRecord
	err := s.thumbnails.FindOne(ctx, bson.M{"_id": userID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.FileID, nil
}

// SetThumbnail upserts the thumbnail reference. An empty fileID clears it.
func (s *Store) SetThumbnail(ctx context.Context, userID int64, fileID string) error {
	if fileID == "" {
		_, err := s.thumbnails.DeleteOne(ctx, bson.M{"_id": userID})
		return err
	}
	_, err := s.thumbnails.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"file_id": fileID}},
		options.Update().SetUpsert(true),
	)
	return err
}
