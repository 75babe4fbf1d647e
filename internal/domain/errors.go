package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotSignedIn indicates a mutation was attempted without a
	// resolved user identity. It is a precondition failure: no cache
	// write and no remote call happens.
	ErrNotSignedIn = errors.New("not signed in")

	// ErrItemNotFound indicates the requested title does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrCatalogUnavailable indicates the catalog API is unreachable
	ErrCatalogUnavailable = errors.New("catalog is unreachable")

	// ErrBackendUnavailable indicates the library backend is unreachable
	ErrBackendUnavailable = errors.New("library backend is unreachable")

	// ErrAuthFailed indicates credentials were rejected
	ErrAuthFailed = errors.New("access token is invalid")
)
