package domain

import "errors"

var (
	// ErrConversationNotFound is returned when a conversation id does not exist
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrProductNotFound is returned when a product cannot be found in the catalog
	ErrProductNotFound = errors.New("product not found")

	// ErrProductExists is returned when creating a product whose id is already taken
	ErrProductExists = errors.New("product already exists")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrForbidden is returned when an admin operation is attempted with a bad token
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
