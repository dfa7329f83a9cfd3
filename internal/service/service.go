package service

import (
	"github.com/bimaplus/bima-api/pkg/database"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
)

// storageError maps repository failures to the API error taxonomy. Connection
// level failures surface as STORAGE_UNAVAILABLE so clients can retry; anything
// else is an internal error.
func storageError(err error, message string) *appErrors.Error {
	if database.IsUnavailable(err) {
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, appErrors.ErrUnavailable.Message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}
