// internal/tests/auth_test.go
package tests

import (
	"net/http"

	"github.com/stretchr/testify/assert"

	"github.com/guanl20/Blocktrust/internal/models"
)

func (suite *APITestSuite) TestLogin() {
	token := suite.login(adminAccount, adminPassword)

	w, response := suite.request(http.MethodGet, "/v1/auth/me", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.True(suite.T(), response.Success)

	var me models.Participant
	suite.decode(response.Data, &me)
	assert.Equal(suite.T(), adminAccount, me.Account)
	assert.True(suite.T(), me.HasRole(models.RoleAdmin))
	assert.NotContains(suite.T(), string(response.Data), "password")
}

func (suite *APITestSuite) TestLoginWrongPassword() {
	w, response := suite.request(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"account":  adminAccount,
		"password": "not-the-password",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.False(suite.T(), response.Success)
	assert.Equal(suite.T(), "UNAUTHORIZED", response.Error.Code)

	w, _ = suite.request(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"account":  "ghost",
		"password": "whatever",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestLoginValidation() {
	w, response := suite.request(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"account": adminAccount,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Equal(suite.T(), "VALIDATION_ERROR", response.Error.Code)
	assert.Contains(suite.T(), string(response.Error.Details), "password")
}

func (suite *APITestSuite) TestAuthRequired() {
	w, response := suite.request(http.MethodGet, "/v1/auth/me", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	assert.Equal(suite.T(), "UNAUTHORIZED", response.Error.Code)

	w, _ = suite.request(http.MethodGet, "/v1/auth/me", "garbage-token", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w, _ = suite.request(http.MethodPost, "/v1/products", "", map[string]string{"name": "Laptop"})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w, _ = suite.request(http.MethodPost, "/v1/admin/pause", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}
