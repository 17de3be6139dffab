package repository

import "context"

// KVStore is the string key/value storage every progress repository sits on.
// Values are opaque serialized documents; implementations never interpret them.
type KVStore interface {
	// Get returns the value stored at key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes every entry or none of them.
	SetMany(ctx context.Context, entries map[string]string) error
	Remove(ctx context.Context, keys ...string) error
	Close() error
}

// EntityKind names one per-user collection in the store.
type EntityKind string

const (
	KindWeakWords     EntityKind = "weak_words"
	KindMasteredWords EntityKind = "mastered_words"
	KindSavedPhrases  EntityKind = "saved_phrases"
	KindSessionCount  EntityKind = "session_count"
	KindSettings      EntityKind = "user_settings"
	KindWeeklyGoal    EntityKind = "weekly_goal"
	// KindWeeklyHistory is reserved; nothing reads or writes it yet.
	KindWeeklyHistory EntityKind = "weekly_history"
)

// Key composes the storage key of an entity kind for one user.
func Key(kind EntityKind, userID string) string {
	return string(kind) + "_" + userID
}
