package cache

import (
	sgerrors "github.com/matzehuels/sitegraph/pkg/errors"
)

// backendError tags a backend failure with the cache error code.
func backendError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return sgerrors.Wrap(sgerrors.ErrCodeCache, err, "%s %s", op, key)
}
