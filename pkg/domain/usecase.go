package domain

import "context"

// UseCase is the application-layer entry point contract. Execute returns a
// Result rather than a bare error so expected business failures carry their
// taxonomy code across the boundary; only unexpected infrastructure faults
// may be converted from panics or raw errors inside the implementation.
//
// Unless documented otherwise, implementations must be safe to retry.
type UseCase[In any, Out any] interface {
	Execute(ctx context.Context, input In) Result[Out]
}
