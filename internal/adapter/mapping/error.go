package mapping

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/eslsoft/examtrack/internal/entity"
	"github.com/eslsoft/examtrack/internal/repository"
)

// ToConnectError maps domain and store errors onto Connect codes. Errors that
// already carry a code pass through unchanged.
func ToConnectError(err error) error {
	var cerr *connect.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &cerr):
		return err
	case errors.Is(err, entity.ErrInvalidPayload):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, entity.ErrNotAuthenticated):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, entity.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, repository.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
