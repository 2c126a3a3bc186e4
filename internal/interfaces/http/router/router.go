package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/propmgmt/backend/internal/interfaces/http/handler"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// DomainGroup collects the routes of one resource under a shared prefix
type DomainGroup struct {
	name       string
	prefix     string
	routes     []routeDefinition
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// RegisterRoutes implements RouteRegistrar interface
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// Handlers bundles the HTTP handlers served by the API
type Handlers struct {
	Fee     *handler.FeeHandler
	Deposit *handler.DepositHandler
	Income  *handler.IncomeHandler
	System  *handler.SystemHandler
}

// Groups returns the domain groups of the API
func Groups(h Handlers) []*DomainGroup {
	fees := NewDomainGroup("fees", "/fees").
		GET("/outstanding/:owner_id", h.Fee.GetOutstanding).
		POST("/generate-outstanding/:owner_id", h.Fee.GenerateOutstanding).
		POST("/generate-monthly", h.Fee.GenerateMonthly).
		GET("/items", h.Fee.ListItems).
		GET("/rates", h.Fee.ListRates).
		POST("/rates", h.Fee.CreateRate).
		GET("/records", h.Fee.ListRecords).
		POST("/records/:id/pay", h.Fee.PayRecord).
		POST("/water-readings", h.Fee.RecordWaterReading).
		POST("/electricity-readings", h.Fee.RecordElectricityReading)

	deposits := NewDomainGroup("deposits", "/deposits").
		GET("", h.Deposit.List).
		POST("", h.Deposit.Create).
		GET("/:id", h.Deposit.Get).
		GET("/:id/deductions", h.Deposit.Deductions).
		POST("/:id/deduct", h.Deposit.Deduct).
		POST("/:id/refund", h.Deposit.Refund)

	income := NewDomainGroup("daily-income", "/daily-income").
		GET("", h.Income.List).
		POST("", h.Income.Record).
		POST("/access-card", h.Income.RecordAccessCard).
		POST("/fire-water", h.Income.RecordFireWater)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/scheduler", h.System.SchedulerStatus).
		POST("/scheduler/run", h.System.RunScheduler)

	health := NewDomainGroup("health", "").
		GET("/health", h.System.Health)

	return []*DomainGroup{fees, deposits, income, system, health}
}

// Setup registers every API route on engine
func Setup(engine *gin.Engine, h Handlers, opts ...RouterOption) *Router {
	r := NewRouter(engine, opts...)
	for _, g := range Groups(h) {
		r.Register(g)
	}
	r.Setup()
	return r
}
