// Package metadata provides the durable key/value storage behind the client:
// the bearer token and the persisted store snapshot live here.
//
// Three backends are available: SQLite (default, one file under the data
// directory), Redis (shared between machines) and in-memory (tests,
// throwaway sessions). All of them return (nil, nil) from Get for a missing
// key.
package metadata

import (
	"context"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
