package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps an externally constructed client (e.g. a mock) in a Store.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
