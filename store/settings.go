package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/suzume/renamebot/types"
)

// GetPrivateMode returns the global private-mode flag. Absent document means
// public (false): a fresh deployment must not lock out everyone before the
// owner can register ids.
func (s *Store) GetPrivateMode(ctx context.Context) (bool, error) {
	var doc struct {
		Value bool `bson:"value"`
	}
	err := s.settings.FindOne(ctx, bson.M{"_id": types.SettingPrivateMode}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return doc.Value, nil
}

func (s *Store) SetPrivateMode(ctx context.Context, private bool) error {
	_, err := s.settings.UpdateOne(ctx,
		bson.M{"_id": types.SettingPrivateMode},
		bson.M{"$set": bson.M{"value": private}},
		options.Update().SetUpsert(true),
	)
	return err
}

// GetDumpChannel returns the configured dump channel id, 0 when off.
func (s *Store) GetDumpChannel(ctx context.Context) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := s.settings.FindOne(ctx, bson.M{"_id": types.SettingDumpChannel}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Value, nil
}

// SetDumpChannel stores the dump channel id; 0 turns mirroring off.
func (s *Store) SetDumpChannel(ctx context.Context, channelID int64) error {
	if channelID == 0 {
		_, err := s.settings.DeleteOne(ctx, bson.M{"_id": types.SettingDumpChannel})
		return err
	}
	_, err := s.settings.UpdateOne(ctx,
		bson.M{"_id": types.SettingDumpChannel},
		bson.M{"$set": bson.M{"value": channelID}},
		options.Update().SetUpsert(true),
	)
	return err
}
