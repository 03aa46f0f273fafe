// Package warehouse abstracts the remote, sandboxed execution environment the
// executor stage deploys generated analysis code into. A deployable unit is a
// Python handler exposing main(context) and returning a mapping with a
// mandatory "status" field; booleans are represented as 0/1 because the
// warehouse value representation has no native boolean.
package warehouse

import "context"

// Session is one open connection to the warehouse. Deploy installs source as
// a callable procedure under the given name; Call invokes it and returns the
// raw, untyped result. Close must be called on every exit path.
type Session interface {
	Deploy(ctx context.Context, procName, source string) error
	Call(ctx context.Context, procName string) (any, error)
	Close() error
}

// Opener creates sessions. Opening fails when the warehouse is unreachable or
// not configured; the executor converts that into a failed execution result.
type Opener interface {
	Open(ctx context.Context) (Session, error)
}
