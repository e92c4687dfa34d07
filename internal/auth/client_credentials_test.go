package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenRouter(t *testing.T) (*gin.Engine, *OAuthService) {
	t.Helper()
	db := setupTestDB(t)
	oauthService := NewOAuthService(db, testSecret, time.Hour)

	employee := models.Employee{Username: "john", Password: "x"}
	require.NoError(t, db.Create(&employee).Error)
	createClient(t, db, "test_client_id", "test_secret", employee)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/oauth/token", oauthService.HandleToken)
	return router, oauthService
}

func postToken(router *gin.Engine, form string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/oauth/token", bytes.NewBufferString(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestClientCredentialsFlow(t *testing.T) {
	router, _ := setupTokenRouter(t)

	w := postToken(router, "grant_type=client_credentials&client_id=test_client_id&client_secret=test_secret&scope=read")
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response, "access_token")
	assert.Equal(t, "Bearer", response["token_type"])
	assert.Contains(t, response["access_token"].(string), ".")
}

func TestClientCredentialsInvalidSecret(t *testing.T) {
	router, _ := setupTokenRouter(t)

	w := postToken(router, "grant_type=client_credentials&client_id=test_client_id&client_secret=wrong_secret&scope=read")

	assert.True(t, w.Code >= 400)
	assert.NotContains(t, w.Body.String(), "access_token")
}

func TestUnsupportedGrantType(t *testing.T) {
	router, _ := setupTokenRouter(t)

	w := postToken(router, "grant_type=password&username=john&password=x")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrUnsupportedGrantType)
}
