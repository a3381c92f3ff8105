package shared

import "context"

// CacheInvalidator is implemented by the reports cache; mutating services
// bump it so derived projections rebuild on the next read.
type CacheInvalidator interface {
	Bump(ctx context.Context) error
}
