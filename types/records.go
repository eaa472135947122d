package types

import "time"

// ThumbnailRecord stores a user's custom thumbnail, keyed by user id.
type ThumbnailRecord struct {
	UserID int64  `bson:"_id"`
	FileID string `bson:"file_id"`
}

// AllowedUser is an allow-list entry. Owners are configured statically and
// never stored here.
type AllowedUser struct {
	UserID  int64     `bson:"_id"`
	AddedAt time.Time `bson:"added_at"`
}

// Settings singleton document ids.
const (
	SettingPrivateMode = "private_mode"
	SettingDumpChannel = "dump_channel"
)

// FileLink is a redeemable deep-link record for a processed file. Links
// expire 24 hours after creation; expiry is checked at redemption and a TTL
// index prunes stale documents.
type FileLink struct {
	Token       string        `bson:"_id"`
	FileID      string        `bson:"file_id"`
	Kind        ContainerKind `bson:"kind"`
	FileName    string        `bson:"file_name"`
	ThumbFileID string        `bson:"thumb_file_id,omitempty"`
	Duration    int           `bson:"duration,omitempty"`
	OwnerID     int64         `bson:"owner_id"`
	Downloads   int64         `bson:"downloads"`
	CreatedAt   time.Time     `bson:"created_at"`
	ExpiresAt   time.Time     `bson:"expires_at"`
}
