package browse

import (
	"errors"
	"fmt"

	"pokedex-cli/internal/model"
)

// ErrStaleResponse marks a list response that no longer matches the current
// parameters. It is expected under rapid filtering and is never surfaced to
// the user.
var ErrStaleResponse = errors.New("stale response")

// FetchFailure is a failed list fetch. Prior list state is left intact and
// the fetch is not retried.
type FetchFailure struct {
	Params  model.QueryParams
	Request model.ListRequest
	Err     error
}

func (e *FetchFailure) Error() string {
	return fmt.Sprintf("fetch page %d (limit %d): %v", e.Request.Page, e.Request.Limit, e.Err)
}

func (e *FetchFailure) Unwrap() error { return e.Err }

// MutationFailure is a toggle whose confirmation failed. The local value has
// already been rolled back when this is reported.
type MutationFailure struct {
	Name string
	Err  error
}

func (e *MutationFailure) Error() string {
	return fmt.Sprintf("toggle capture %q: %v", e.Name, e.Err)
}

func (e *MutationFailure) Unwrap() error { return e.Err }
