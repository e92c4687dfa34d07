package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("middleware-test-secret")

func signToken(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func validClaims(uid, role string) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"uid":  uid,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Hour).Unix(),
	}
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{Authenticate(testSecret)}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint(ContextUserID), "role": c.GetString(ContextUserRole)})
	})
	router.Handle(http.MethodGet, "/employees/:id", chain...)
	router.Handle(http.MethodPatch, "/employees/:id", chain...)
	router.Handle(http.MethodDelete, "/employees/:id", chain...)
	return router
}

func do(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	router := newRouter()
	expired := validClaims("1", models.RoleUser)
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	future := validClaims("1", models.RoleUser)
	future["iat"] = time.Now().Add(time.Hour).Unix()
	noRole := validClaims("1", "")
	badRole := validClaims("1", "root")

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer " + signToken(t, jwt.SigningMethodHS256, validClaims("3", models.RoleUser)), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, jwt.SigningMethodHS256, expired), http.StatusUnauthorized},
		{"issued in the future", "Bearer " + signToken(t, jwt.SigningMethodHS256, future), http.StatusUnauthorized},
		{"missing role", "Bearer " + signToken(t, jwt.SigningMethodHS256, noRole), http.StatusUnauthorized},
		{"unknown role", "Bearer " + signToken(t, jwt.SigningMethodHS256, badRole), http.StatusUnauthorized},
		{"unsigned", "Bearer " + func() string {
			s, _ := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims("3", models.RoleAdmin)).SignedString(jwt.UnsafeAllowNoneSignatureType)
			return s
		}(), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/employees/3", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
			}
		})
	}
}

func TestAuthenticateSetsCaller(t *testing.T) {
	router := newRouter()
	w := do(router, http.MethodGet, "/employees/3", signToken(t, jwt.SigningMethodHS512, validClaims("3", models.RoleAdmin)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":3,"role":"admin"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	router := newRouter(RequireRole(models.RoleAdmin))

	w := do(router, http.MethodGet, "/employees/1", signToken(t, jwt.SigningMethodHS256, validClaims("1", models.RoleUser)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrForbidden)

	w = do(router, http.MethodGet, "/employees/1", signToken(t, jwt.SigningMethodHS256, validClaims("1", models.RoleAdmin)))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", RequireRole(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(router, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	router := newRouter(RequireOwnerOrAdmin("id"))
	owner := signToken(t, jwt.SigningMethodHS256, validClaims("5", models.RoleUser))
	admin := signToken(t, jwt.SigningMethodHS256, validClaims("1", models.RoleAdmin))

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"owner reads", http.MethodGet, "/employees/5", owner, http.StatusOK},
		{"owner patches", http.MethodPatch, "/employees/5", owner, http.StatusOK},
		{"owner cannot delete", http.MethodDelete, "/employees/5", owner, http.StatusForbidden},
		{"other employee", http.MethodGet, "/employees/6", owner, http.StatusForbidden},
		{"non numeric id", http.MethodGet, "/employees/me", owner, http.StatusForbidden},
		{"admin reads anyone", http.MethodGet, "/employees/6", admin, http.StatusOK},
		{"admin deletes", http.MethodDelete, "/employees/6", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := do(router, http.MethodGet, "/ok", "")
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, generated, hook.LastEntry().Data["request_id"])

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, 500, hook.LastEntry().Data["status"])
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS([]string{"https://canteen.example"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://canteen.example")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "https://canteen.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
