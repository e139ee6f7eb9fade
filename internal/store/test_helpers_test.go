package store

import "errors"

// asStoreError unwraps err into a store *Error.
func asStoreError(err error, target **Error) bool {
	return errors.As(err, target)
}
