// Package lock serializes runs on one host. The pipeline owns its working
// tree exclusively, so two overlapping runs would corrupt each other's
// scratch space; a held lock makes the second run fail fast instead.
package lock

import "context"

type Locker interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
}
