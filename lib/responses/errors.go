package responses

import (
	"errors"
	"net/http"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Kind           string `json:"kind,omitempty"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Kind:           "InvalidData",
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var InvalidDataError = ErrorResponse{
	Error:          true,
	Code:           8,
	Kind:           "InvalidData",
	Message:        "invalid data",
	HttpStatusCode: 400,
}

var UnauthorizedError = ErrorResponse{
	Error:          true,
	Code:           3,
	Kind:           "Unauthorized",
	Message:        "caller is not allowed to perform this operation",
	HttpStatusCode: 403,
}

var NotOwnerError = ErrorResponse{
	Error:          true,
	Code:           3,
	Kind:           "NotOwner",
	Message:        "caller is not the token owner",
	HttpStatusCode: 403,
}

var NotFoundError = ErrorResponse{
	Error:          true,
	Code:           4,
	Kind:           "NotFound",
	Message:        "not found",
	HttpStatusCode: 404,
}

var AlreadyExistsError = ErrorResponse{
	Error:          true,
	Code:           5,
	Kind:           "AlreadyExists",
	Message:        "invoice already exists",
	HttpStatusCode: 409,
}

var AlreadyVerifiedError = ErrorResponse{
	Error:          true,
	Code:           5,
	Kind:           "AlreadyVerified",
	Message:        "invoice already verified",
	HttpStatusCode: 409,
}

var AlreadyTokenizedError = ErrorResponse{
	Error:          true,
	Code:           5,
	Kind:           "AlreadyTokenized",
	Message:        "invoice already tokenized",
	HttpStatusCode: 409,
}

// ErrorResponseFor maps a registry error onto its response. The message is
// taken from the error so the client sees which check failed.
func ErrorResponseFor(err error) ErrorResponse {
	var resp ErrorResponse
	switch service.ErrorKind(err) {
	case "InvalidData":
		resp = InvalidDataError
	case "Unauthorized":
		resp = UnauthorizedError
	case "NotOwner":
		resp = NotOwnerError
	case "NotFound":
		resp = NotFoundError
	case "AlreadyExists":
		resp = AlreadyExistsError
	case "AlreadyVerified":
		resp = AlreadyVerifiedError
	case "AlreadyTokenized":
		resp = AlreadyTokenizedError
	default:
		return GeneralServerError
	}
	resp.Message = err.Error()
	return resp
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("Caller", c.Get("Caller"))
			hub.CaptureException(err)
		})
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		c.JSON(he.Code, he.Message)
		return
	}
	resp := ErrorResponseFor(err)
	c.JSON(resp.HttpStatusCode, resp)
}

// isErrAllowedForSentry filters out errors that are the client's fault:
// bad auth and every registry rule violation.
func isErrAllowedForSentry(err error) bool {
	if service.ErrorKind(err) != "" {
		return false
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound || he.Code == http.StatusMethodNotAllowed {
			return false
		}
		if m, ok := he.Message.(echo.Map); ok && m["code"] == BadAuthError.Code {
			return false
		}
		if resp, ok := he.Message.(ErrorResponse); ok && resp.Code == BadAuthError.Code {
			return false
		}
	}
	return true
}
