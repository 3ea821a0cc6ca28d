package router

import (
	basehdl "expo_leads/internal/api/base/handler"
	"expo_leads/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// Router owns the fiber app while domains register their routes
type Router struct {
	app *fiber.App
}

// RoutePrefix holds the path prefixes of the API
type RoutePrefix struct {
	Base string // /api
}

// NewRoutePrefix returns the default prefixes
func NewRoutePrefix() RoutePrefix {
	return RoutePrefix{Base: "/api"}
}

// NewRouter wraps app
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// App gives registrations access to root level paths (outside /api)
func (r *Router) App() *fiber.App {
	return r.app
}

// RegisterFunc registers the routes of one domain below api
type RegisterFunc func(api fiber.Router, r *Router) error

// SystemOptions controls the operational routes
type SystemOptions struct {
	Ping           func() error // database ping for /api/health
	MetricsEnabled bool         // serve /metrics
	UploadDir      string       // serve /uploads from here when set
}

// System registers /api/health, /metrics and /uploads
func System(opts SystemOptions) RegisterFunc {
	return func(api fiber.Router, r *Router) error {
		h := basehdl.NewSystemHandler(opts.Ping)
		api.Get("/health", h.HandleHealth)

		if opts.MetricsEnabled {
			r.App().Get("/metrics", metrics.Handler())
		}
		if opts.UploadDir != "" {
			r.App().Use("/uploads", static.New(opts.UploadDir))
		}
		return nil
	}
}

// SetupRoutes runs every registration under the /api group.
// Callers pass each domain's Register to keep imports one-way.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	api := app.Group(prefix.Base)
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(api, r); err != nil {
			return err
		}
	}
	return nil
}
