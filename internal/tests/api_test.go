// internal/tests/api_test.go
package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/guanl20/Blocktrust/internal/config"
	"github.com/guanl20/Blocktrust/internal/i18n"
	"github.com/guanl20/Blocktrust/internal/metrics"
	"github.com/guanl20/Blocktrust/internal/models"
	"github.com/guanl20/Blocktrust/internal/repository"
	"github.com/guanl20/Blocktrust/internal/router"
	"github.com/guanl20/Blocktrust/internal/services"
)

const (
	adminAccount  = "admin"
	adminPassword = "admin-password"
	userPassword  = "participant-pass"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta json.RawMessage `json:"meta"`
}

// APITestSuite runs the full router over an in-memory store.
type APITestSuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	ledger *services.Ledger
	router *gin.Engine
}

func (suite *APITestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)
	suite.Require().NoError(i18n.Initialize("en"))
}

func (suite *APITestSuite) SetupTest() {
	suite.ctx, suite.cancel = context.WithCancel(context.Background())
	suite.cfg = &config.Config{
		Environment: "test",
		JWT:         config.JWTConfig{SecretKey: "api-test-secret", AccessTokenTTL: 1},
		Ledger:      config.LedgerConfig{StatusPolicy: "strict", AdminAccount: adminAccount, AdminPassword: adminPassword},
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			AuthPerMinute:     1000,
			AuthBurst:         1000,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
		I18n: config.I18nConfig{DefaultLocale: "en"},
	}

	m := metrics.New()
	suite.ledger = services.NewLedger(repository.NewMemoryStore(), suite.cfg, services.LedgerOptions{
		Recorder: m,
		Storage:  "memory",
	})
	suite.Require().NoError(suite.ledger.Roles.Bootstrap(suite.ctx, adminAccount, "HQ", adminPassword))
	suite.router = router.Initialize(suite.ctx, suite.cfg, suite.ledger, m)
}

func (suite *APITestSuite) TearDownTest() {
	suite.cancel()
}

func (suite *APITestSuite) request(method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response apiResponse
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func (suite *APITestSuite) decode(raw json.RawMessage, out interface{}) {
	suite.Require().NoError(json.Unmarshal(raw, out))
}

func (suite *APITestSuite) login(account, password string) string {
	w, response := suite.request(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"account":  account,
		"password": password,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	suite.decode(response.Data, &data)
	suite.Require().NotEmpty(data.Token)
	return data.Token
}

// enroll registers account with role through the API and returns its token.
func (suite *APITestSuite) enroll(adminToken, account string, role models.Role) string {
	w, _ := suite.request(http.MethodPost, "/v1/participants", adminToken, map[string]interface{}{
		"account":      account,
		"company_name": account + " Ltd",
		"password":     userPassword,
		"roles":        []string{string(role)},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return suite.login(account, userPassword)
}
