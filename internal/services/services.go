package services

import (
	"context"

	"github.com/michida/michida/internal/models"
)

// Query describes one read against a named collection: optional column
// projection, equality predicates, ordering, and an optional row limit.
type Query struct {
	Table   string
	Columns string            // projection, defaults to *
	Eq      map[string]string // ANDed equality predicates
	OrderBy string
	Desc    bool
	Limit   int // 0 means no limit
}

// Backend defines the capability set the client consumes from the remote
// store and identity provider.
type Backend interface {
	// Select runs q and decodes the resulting rows into result, which must
	// be a pointer to a slice.
	Select(ctx context.Context, q Query, result any) error

	// SelectMaybeSingle runs q limited to one row. Returns false without
	// error when no row matches.
	SelectMaybeSingle(ctx context.Context, q Query, result any) (bool, error)

	// Count returns the exact number of rows matching q without fetching them.
	Count(ctx context.Context, q Query) (int, error)

	// Insert adds a row to the named collection. Uniqueness violations are
	// reported as shared.ErrConstraint.
	Insert(ctx context.Context, table string, row any) error

	// Update patches every row matching the equality predicates.
	Update(ctx context.Context, table string, patch any, eq map[string]string) error

	// Delete removes every row matching the equality predicates.
	Delete(ctx context.Context, table string, eq map[string]string) error

	// IncrementViews calls the stored procedure that bumps a post's view
	// counter by one, keyed by row id.
	IncrementViews(ctx context.Context, postID int64) error

	// Session retrieves the identity attached to the current access token,
	// or shared.ErrSignInRequired when there is none.
	Session(ctx context.Context) (*models.User, error)

	// SignInURL returns the OAuth authorize URL that redirects back to
	// redirectTo after consent.
	SignInURL(redirectTo string) string

	// SignOut revokes the current session with the identity provider.
	SignOut(ctx context.Context) error

	// SetAccessToken installs (or clears, with "") the bearer token used
	// for user-scoped requests.
	SetAccessToken(token string)

	// AccessToken returns the currently installed bearer token.
	AccessToken() string
}
