package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-canteen-api/internal/models"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "router-test-secret-32-characters!"

type capturedEvents struct {
	mu    sync.Mutex
	types []services.EventType
}

func (c *capturedEvents) Publish(_ context.Context, event services.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types = append(c.types, event.Type)
	return nil
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	events *capturedEvents
}

func setupAPI(t *testing.T) *apiClient {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	for _, e := range []models.Employee{
		{Username: "admin", Password: "admin-pass", IsStaff: true},
		{Username: "alice", Password: "alice-pass"},
		{Username: "bob", Password: "bob-pass"},
	} {
		require.NoError(t, e.HashPassword())
		require.NoError(t, db.Create(&e).Error)
	}

	logger, _ := test.NewNullLogger()
	events := &capturedEvents{}
	gin.SetMode(gin.TestMode)
	router := NewRouter(Dependencies{
		DB:          db,
		Publisher:   events,
		JWTSecret:   testSecret,
		TokenTTL:    time.Hour,
		CORSOrigins: []string{"*"},
		Logger:      logger,
	})
	return &apiClient{t: t, router: router, db: db, events: events}
}

func (a *apiClient) login(username, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(a.t, 3600, resp.ExpiresIn)
	return resp.AccessToken
}

func (a *apiClient) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *apiClient) employeeID(username string) uint {
	a.t.Helper()
	var e models.Employee
	require.NoError(a.t, a.db.Where("username = ?", username).First(&e).Error)
	return e.ID
}

func TestHealth(t *testing.T) {
	api := setupAPI(t)
	w := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLogin(t *testing.T) {
	api := setupAPI(t)
	assert.NotEmpty(t, api.login("alice", "alice-pass"))

	w := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrInvalidCredentials)

	w = api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "nobody", "password": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessRules(t *testing.T) {
	api := setupAPI(t)
	admin := api.login("admin", "admin-pass")
	alice := api.login("alice", "alice-pass")
	aliceID := api.employeeID("alice")
	bobID := api.employeeID("bob")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
	}{
		{"anonymous meal list", http.MethodGet, "/api/v1/meals", "", nil, http.StatusUnauthorized},
		{"user lists meals", http.MethodGet, "/api/v1/meals", alice, nil, http.StatusOK},
		{"user cannot create meal", http.MethodPost, "/api/v1/meals", alice, gin.H{"name": "x", "price": 1, "capacity": 1}, http.StatusForbidden},
		{"admin creates meal", http.MethodPost, "/api/v1/meals", admin, gin.H{"name": "x", "price": 1, "capacity": 1}, http.StatusCreated},
		{"user cannot list employees", http.MethodGet, "/api/v1/employees", alice, nil, http.StatusForbidden},
		{"admin lists employees", http.MethodGet, "/api/v1/employees", admin, nil, http.StatusOK},
		{"owner reads self", http.MethodGet, fmt.Sprintf("/api/v1/employees/%d", aliceID), alice, nil, http.StatusOK},
		{"owner patches self", http.MethodPatch, fmt.Sprintf("/api/v1/employees/%d", aliceID), alice, gin.H{"position": "Cook"}, http.StatusOK},
		{"owner cannot grant self staff", http.MethodPatch, fmt.Sprintf("/api/v1/employees/%d", aliceID), alice, gin.H{"is_staff": true}, http.StatusForbidden},
		{"owner replaces self", http.MethodPut, fmt.Sprintf("/api/v1/employees/%d", aliceID), alice, gin.H{"username": "alice", "position": "Chef", "phone_numbers": []string{"555-0100"}}, http.StatusOK},
		{"owner cannot replace others", http.MethodPut, fmt.Sprintf("/api/v1/employees/%d", bobID), alice, gin.H{"username": "bob"}, http.StatusForbidden},
		{"user cannot read others", http.MethodGet, fmt.Sprintf("/api/v1/employees/%d", bobID), alice, nil, http.StatusForbidden},
		{"owner cannot delete self", http.MethodDelete, fmt.Sprintf("/api/v1/employees/%d", aliceID), alice, nil, http.StatusForbidden},
		{"owner reads own orders", http.MethodGet, fmt.Sprintf("/api/v1/employees/%d/orders", aliceID), alice, nil, http.StatusOK},
		{"user cannot read others orders", http.MethodGet, fmt.Sprintf("/api/v1/employees/%d/orders", bobID), alice, nil, http.StatusForbidden},
		{"admin deletes employee", http.MethodDelete, fmt.Sprintf("/api/v1/employees/%d", bobID), admin, nil, http.StatusNoContent},
		{"user lists orders", http.MethodGet, "/api/v1/orders", alice, nil, http.StatusOK},
		{"user lists deliveries", http.MethodGet, "/api/v1/deliveries", alice, nil, http.StatusOK},
		{"user lists phones", http.MethodGet, "/api/v1/phones", alice, nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestOrderLifecycle(t *testing.T) {
	api := setupAPI(t)
	admin := api.login("admin", "admin-pass")
	alice := api.login("alice", "alice-pass")

	w := api.do(http.MethodPost, "/api/v1/meals", admin, gin.H{"name": "Curry", "price": 5, "capacity": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	var meal models.Meal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meal))

	w = api.do(http.MethodPost, "/api/v1/orders", alice, gin.H{"meal_ids": []uint{meal.ID, meal.ID}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/v1/orders", alice, gin.H{"meal_ids": []uint{meal.ID}, "del_flag": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order struct {
		ID         uint    `json:"id"`
		EmployeeID uint    `json:"employee_id"`
		Price      float64 `json:"price"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, api.employeeID("alice"), order.EmployeeID)
	assert.Equal(t, 5.0, order.Price)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/v1/meals/%d", meal.ID), alice, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meal))
	assert.Equal(t, 0, meal.Capacity)
	assert.Equal(t, 1, meal.Sales)

	w = api.do(http.MethodPost, "/api/v1/deliveries", alice, gin.H{"name": "Desk 4", "order_id": order.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPut, fmt.Sprintf("/api/v1/orders/%d", order.ID), alice, gin.H{"completed": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodDelete, fmt.Sprintf("/api/v1/orders/%d", order.ID), alice, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, fmt.Sprintf("/api/v1/meals/%d", meal.ID), alice, nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meal))
	assert.Equal(t, 1, meal.Capacity)
	assert.Equal(t, 0, meal.Sales)

	w = api.do(http.MethodGet, "/api/v1/deliveries", alice, nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, []services.EventType{
		services.EventOrderPlaced,
		services.EventDeliveryCreated,
		services.EventOrderCancelled,
	}, api.events.types)
}

func TestClientCredentialsToken(t *testing.T) {
	api := setupAPI(t)
	alice := api.login("alice", "alice-pass")

	w := api.do(http.MethodPost, "/api/v1/clients", alice, gin.H{"name": "kiosk"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var client struct {
		ID     string `json:"client_id"`
		Secret string `json:"client_secret"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &client))

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {client.ID},
		"client_secret": {client.Secret},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/oauth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))

	// The client acts as alice: her own record is readable, the admin list is not
	w = api.do(http.MethodGet, fmt.Sprintf("/api/v1/employees/%d", api.employeeID("alice")), token.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodGet, "/api/v1/employees", token.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
