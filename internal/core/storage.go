package core

import "context"

const (
	RatingsKey = "ratings"
	HistoryKey = "history"
)

// KVStore is the durable local storage used by the Rating Store and the
// History Ledger. Get returns ErrNotFound for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
