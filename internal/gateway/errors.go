package gateway

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/WailSalutem-Health-Care/prescription-service/internal/auth"
)

// Error codes reported in extensions.code
const (
	CodeNotFound        = "NOT_FOUND"
	CodeBadUserInput    = "BAD_USER_INPUT"
	CodeUnavailable     = "UNAVAILABLE"
	CodeInternal        = "INTERNAL"
	CodeForbidden       = "FORBIDDEN"
	CodeUnauthenticated = "UNAUTHENTICATED"
)

// Error is a resolver error carrying a machine readable code
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string { return e.Message }

// Extensions is read by graphql-go when building the response
func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.Code}
}

// fromRPC translates a records service failure into a client facing error
func fromRPC(err error) *Error {
	st, ok := status.FromError(err)
	if !ok {
		return &Error{Message: "internal error", Code: CodeInternal}
	}

	switch st.Code() {
	case codes.NotFound:
		return &Error{Message: st.Message(), Code: CodeNotFound}
	case codes.InvalidArgument:
		return &Error{Message: st.Message(), Code: CodeBadUserInput}
	case codes.Unavailable, codes.DeadlineExceeded:
		return &Error{Message: "records service unavailable", Code: CodeUnavailable}
	default:
		return &Error{Message: "internal error", Code: CodeInternal}
	}
}

func fromAuth(err error) *Error {
	if errors.Is(err, auth.ErrUnauthenticated) {
		return &Error{Message: "authentication required", Code: CodeUnauthenticated}
	}
	return &Error{Message: "permission denied", Code: CodeForbidden}
}
