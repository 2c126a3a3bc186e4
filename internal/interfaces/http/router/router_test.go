package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/propmgmt/backend/internal/interfaces/http/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) Ping() error { return nil }

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group)
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("fees", "/fees")
		assert.Equal(t, "fees", g.Name())
		assert.Equal(t, "/fees", g.Prefix())
	})

	t.Run("middleware runs before routes", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").
			Use(func(c *gin.Context) {
				c.Header("X-Group", "test")
				c.Next()
			}).
			POST("/items", func(c *gin.Context) {
				c.Status(http.StatusCreated)
			})
		g.RegisterRoutes(engine.Group("/api/v1"))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/test/items", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "test", w.Header().Get("X-Group"))
	})
}

func TestSetupRegistersAPI(t *testing.T) {
	engine := gin.New()
	Setup(engine, Handlers{
		Fee:     handler.NewFeeHandler(nil, nil, nil, nil, nil),
		Deposit: handler.NewDepositHandler(nil),
		Income:  handler.NewIncomeHandler(nil),
		System:  handler.NewSystemHandler("api", "test", okPinger{}, nil),
	})

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /api/v1/fees/outstanding/:owner_id",
		"POST /api/v1/fees/generate-outstanding/:owner_id",
		"POST /api/v1/fees/generate-monthly",
		"GET /api/v1/fees/items",
		"GET /api/v1/fees/rates",
		"POST /api/v1/fees/rates",
		"GET /api/v1/fees/records",
		"POST /api/v1/fees/records/:id/pay",
		"POST /api/v1/fees/water-readings",
		"POST /api/v1/fees/electricity-readings",
		"GET /api/v1/deposits",
		"POST /api/v1/deposits",
		"GET /api/v1/deposits/:id",
		"GET /api/v1/deposits/:id/deductions",
		"POST /api/v1/deposits/:id/deduct",
		"POST /api/v1/deposits/:id/refund",
		"GET /api/v1/daily-income",
		"POST /api/v1/daily-income",
		"POST /api/v1/daily-income/access-card",
		"POST /api/v1/daily-income/fire-water",
		"GET /api/v1/system/info",
		"GET /api/v1/system/scheduler",
		"POST /api/v1/system/scheduler/run",
		"GET /api/v1/health",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "missing route %s", route)
	}
	assert.Len(t, registered, len(expected))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
