package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/migrations"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/logging"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/middlewares"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/responses"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/tokens"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/transport"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun/migrate"
)

const (
	testAdmin = "registry-admin"
	alice     = "alice"
	bob       = "bob"
	carol     = "carol"
)

func RegistryTestServiceInit() (svc *service.RegistryService, err error) {
	c := &service.Config{
		DatabaseUri:         fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", uuid.NewString()),
		JWTSecret:           []byte("SECRET"),
		InitialAdmin:        testAdmin,
		DefaultRateLimit:    10000,
		StrictRateLimit:     10000,
		BurstRateLimit:      10000,
		MaxIdentifierLength: 64,
		MaxStatusLength:     32,
		MaxPayloadLength:    1024,
	}

	dbConn, err := db.Open(c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	err = migrator.Init(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init migrations: %w", err)
	}
	_, err = migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logger := logging.Logger(c.LogFilePath, "error")
	svc = &service.RegistryService{
		Config:         c,
		DB:             dbConn,
		Logger:         logger,
		TransferPubSub: service.NewPubsub(),
	}
	if _, err = svc.InitAdmin(ctx, c.InitialAdmin); err != nil {
		return nil, fmt.Errorf("failed to init admin: %w", err)
	}
	return svc, nil
}

// initRegistryEcho wires the routes the same way the server does.
func initRegistryEcho(svc *service.RegistryService) *echo.Echo {
	e := transport.InitEcho(svc.Config, svc.Logger)
	logMw := transport.CreateLoggingMiddleware(svc.Logger)
	strictRateLimitMiddleware := transport.CreateRateLimitMiddleware(svc.Config.StrictRateLimit, svc.Config.BurstRateLimit)
	secured := e.Group("", middlewares.CallAuth(svc.Config.JWTSecret), logMw)
	securedWithStrictRateLimit := e.Group("", middlewares.CallAuth(svc.Config.JWTSecret), strictRateLimitMiddleware, logMw)
	transport.RegisterV2Endpoints(svc, e, secured, securedWithStrictRateLimit)
	return e
}

type TestSuite struct {
	suite.Suite
	echo    *echo.Echo
	service *service.RegistryService
}

func (suite *TestSuite) SetupTest() {
	svc, err := RegistryTestServiceInit()
	if err != nil {
		suite.T().Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.echo = initRegistryEcho(svc)
}

func (suite *TestSuite) TearDownTest() {
	suite.service.DB.Close()
}

func (suite *TestSuite) callToken(caller string, clock int64) string {
	token, err := tokens.GenerateCallToken(suite.service.Config.JWTSecret, caller, clock, time.Minute)
	assert.NoError(suite.T(), err)
	return token
}

// do sends body as JSON with a call token for caller at clock. An empty
// caller sends no token at all.
func (suite *TestSuite) do(method, path, caller string, clock int64, body interface{}) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var buf bytes.Buffer
	if body != nil {
		assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if caller != "" {
		req.Header.Set(echo.HeaderAuthorization, fmt.Sprintf("Bearer %s", suite.callToken(caller, clock)))
	}
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func (suite *TestSuite) decode(rec *httptest.ResponseRecorder, expectedStatus int, v interface{}) {
	assert.Equal(suite.T(), expectedStatus, rec.Code, rec.Body.String())
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(v))
}

func (suite *TestSuite) checkErrResponse(rec *httptest.ResponseRecorder, expectedStatus int, expectedKind string) *responses.ErrorResponse {
	errorResponse := &responses.ErrorResponse{}
	suite.decode(rec, expectedStatus, errorResponse)
	assert.True(suite.T(), errorResponse.Error)
	assert.Equal(suite.T(), expectedKind, errorResponse.Kind)
	return errorResponse
}

func (suite *TestSuite) registerInvoice(caller, invoiceID string, clock int64) {
	rec := suite.do(http.MethodPost, "/v2/invoices", caller, clock, map[string]interface{}{
		"invoice_id": invoiceID,
		"recipient":  bob,
		"amount":     5000,
		"due_date":   clock + 1000,
		"status":     "pending",
	})
	assert.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
}

func (suite *TestSuite) tokenizeInvoice(caller, invoiceID string, clock int64) int64 {
	rec := suite.do(http.MethodPost, "/v2/tokens", caller, clock, map[string]interface{}{
		"invoice_id":    invoiceID,
		"face_value":    10000,
		"discount_rate": 10,
		"maturity_date": clock + 100,
	})
	body := struct {
		TokenID int64 `json:"token_id"`
	}{}
	suite.decode(rec, http.StatusCreated, &body)
	return body.TokenID
}

func (suite *TestSuite) doWithRawToken(method, path, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderAuthorization, fmt.Sprintf("Bearer %s", token))
	suite.echo.ServeHTTP(rec, req)
	return rec
}
