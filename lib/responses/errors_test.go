package responses

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadAuthErrorsNotAllowedForSentry(t *testing.T) {
	badAuthErrResponse := echo.NewHTTPError(http.StatusBadRequest, echo.Map{
		"error":   true,
		"code":    1,
		"message": "bad auth",
	})

	isAllowed := isErrAllowedForSentry(badAuthErrResponse)
	assert.False(t, isAllowed)
}

func TestNotBadAuthErrorsAllowedForSentry(t *testing.T) {
	notBadAuthErrResponse := echo.NewHTTPError(http.StatusBadRequest, echo.Map{
		"error":   true,
		"code":    2,
		"message": "not bad auth",
	})

	isAllowed := isErrAllowedForSentry(notBadAuthErrResponse)
	assert.True(t, isAllowed)
}

func TestNonErrorResponseErrorsAllowedForSentry(t *testing.T) {
	err := errors.New("random error")

	isAllowed := isErrAllowedForSentry(err)
	assert.True(t, isAllowed)
}

func TestRegistryErrorsNotAllowedForSentry(t *testing.T) {
	err := fmt.Errorf("%w: token 7", service.ErrNotOwner)

	assert.False(t, isErrAllowedForSentry(err))
}

func TestErrorResponseFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{service.ErrInvalidData, http.StatusBadRequest, "InvalidData"},
		{service.ErrUnauthorized, http.StatusForbidden, "Unauthorized"},
		{service.ErrNotOwner, http.StatusForbidden, "NotOwner"},
		{service.ErrNotFound, http.StatusNotFound, "NotFound"},
		{service.ErrAlreadyExists, http.StatusConflict, "AlreadyExists"},
		{service.ErrAlreadyVerified, http.StatusConflict, "AlreadyVerified"},
		{service.ErrAlreadyTokenized, http.StatusConflict, "AlreadyTokenized"},
		{errors.New("disk on fire"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("%w: detail", tc.err)
		resp := ErrorResponseFor(wrapped)
		assert.Equal(t, tc.status, resp.HttpStatusCode, tc.err.Error())
		assert.Equal(t, tc.kind, resp.Kind, tc.err.Error())
	}
	assert.Equal(t, "invalid data: detail", ErrorResponseFor(fmt.Errorf("%w: detail", service.ErrInvalidData)).Message)
	assert.Equal(t, GeneralServerError.Message, ErrorResponseFor(errors.New("secret detail")).Message)
}

func TestHTTPErrorHandlerWritesKind(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(fmt.Errorf("%w: invoice inv-1", service.ErrAlreadyExists), c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := ErrorResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "AlreadyExists", body.Kind)
	assert.True(t, body.Error)
}
