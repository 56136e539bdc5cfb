package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuery        = errors.New("empty query")
	ErrSchemaUnavailable = errors.New("no schema connected")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrRetrievalFailure  = errors.New("retrieval failure")
	ErrCacheCorruption   = errors.New("cache entry corrupted")

	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrTemporary    = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
