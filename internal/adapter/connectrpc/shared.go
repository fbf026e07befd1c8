package connectrpc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/eslsoft/examtrack/internal/adapter/mapping"
	"github.com/eslsoft/examtrack/internal/repository"
	examtrackv1 "github.com/eslsoft/examtrack/pkg/api/examtrack/v1"
)

// UserIDHeader carries the identity resolved by the upstream auth proxy.
const UserIDHeader = "X-User-Id"

const (
	_defaultPageSize = 20
	_maxPageSize     = 100
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type userIDKey struct{}

// WithUserID stores the caller identity in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, strings.TrimSpace(userID))
}

// UserIDFrom returns the caller identity, or "" when the request carried none.
// Usecases reject the blank identity with ErrNotAuthenticated.
func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// Identity copies the user header into the request context.
func Identity() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			return next(WithUserID(ctx, req.Header().Get(UserIDHeader)), req)
		}
	}
}

// Errors validates request messages and translates handler errors into Connect codes.
func Errors() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if msg := req.Any(); msg != nil {
				if err := validate.Struct(msg); err != nil {
					var invalid *validator.InvalidValidationError
					if !errors.As(err, &invalid) {
						return nil, connect.NewError(connect.CodeInvalidArgument, err)
					}
				}
			}
			resp, err := next(ctx, req)
			if err != nil {
				return nil, mapping.ToConnectError(err)
			}
			return resp, nil
		}
	}
}

// DefaultHandlerOptions are the codec and interceptors every service mounts with.
func DefaultHandlerOptions(interceptors ...connect.Interceptor) []connect.HandlerOption {
	interceptors = append(interceptors, Identity(), Errors())
	return []connect.HandlerOption{
		connect.WithCodec(examtrackv1.JSONCodec{}),
		connect.WithInterceptors(interceptors...),
	}
}

func handle[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

func convertPagination(p *examtrackv1.PaginationRequest) repository.Pagination {
	pageNo := p.GetPageNo()
	if pageNo <= 0 {
		pageNo = 1
	}
	pageSize := p.GetPageSize()
	if pageSize <= 0 {
		pageSize = _defaultPageSize
	}
	if pageSize > _maxPageSize {
		pageSize = _maxPageSize
	}
	return repository.Pagination{PageNo: pageNo, PageSize: pageSize}
}
