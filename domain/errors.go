package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal server error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("your item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given param is not valid")
	// ErrForbidden will throw if the viewer may not touch the item
	ErrForbidden = errors.New("you do not have permission to do this")
	// ErrUnauthenticated will throw if an action needs a signed-in viewer
	ErrUnauthenticated = errors.New("please sign in first")
	// ErrEmptyContent will throw if a post, comment or message has no text
	ErrEmptyContent = errors.New("content must not be empty")
	// ErrSessionClosed will throw if a chat session was already torn down
	ErrSessionClosed = errors.New("chat session is closed")
	// ErrCacheMiss will throw if the cache has no entry for the key
	ErrCacheMiss = errors.New("cache miss")
)
