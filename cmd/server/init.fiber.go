package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	basehdl "expo_leads/internal/api/base/handler"
	exporouter "expo_leads/internal/api/expo/router"
	"expo_leads/internal/api/router"
	"expo_leads/internal/common"
	"expo_leads/internal/database"
	"expo_leads/internal/global"
	"expo_leads/internal/logger"
	"expo_leads/internal/media"
	"expo_leads/internal/metrics"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
)

// errorHandler turns errors escaping the handlers (unknown route, body too large) into the envelope
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	errorCode := common.ErrCodeInternalServer

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
		switch {
		case code == fiber.StatusNotFound:
			errorCode = common.ErrCodeDatabaseQuery
		case code < fiber.StatusInternalServerError:
			errorCode = common.ErrCodeValidationInput
		}
	}

	return basehdl.RespondError(c, common.NewError(errorCode, message, code, err), "")
}

// isOperational reports the routes that skip rate limiting and panic capture
func isOperational(c fiber.Ctx) bool {
	return c.Path() == "/api/health" || c.Path() == "/metrics" || c.Method() == fiber.MethodOptions
}

// InitFiberApp builds the fiber app with its middleware stack and routes
func InitFiberApp() *fiber.App {
	cfg := global.MongoDB_ServerConfig

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,

		BodyLimit:       10 * 1024 * 1024, // 10MB, two card images plus fields
		ReadBufferSize:  8192,
		WriteBufferSize: 4096,

		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,

		ErrorHandler: errorHandler,
	})

	// 1. Request ID
	app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return fmt.Sprintf("%d", time.Now().UnixNano())
		},
	}))

	// 2. CORS, before anything that could reject a preflight
	allowOrigins := []string{"*"}
	if cfg.CORS_Origins != "*" {
		allowOrigins = strings.Split(cfg.CORS_Origins, ",")
		for i, origin := range allowOrigins {
			allowOrigins[i] = strings.TrimSpace(origin)
		}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Requested-With"},
		AllowCredentials: cfg.CORS_AllowCredentials && cfg.CORS_Origins != "*",
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	log := logger.GetAppLogger()

	// 4. Rate limiting, per IP
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return basehdl.JSONResponse(c, common.StatusTooManyRequests, fiber.Map{
					"success": false,
					"code":    common.ErrCodeBusinessOperation.Code,
					"message": common.MsgTooManyRequests,
				})
			},
			Next: isOperational,
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.ErrorWithRequest(c).WithFields(map[string]interface{}{
				"panic": e,
			}).Error("Panic recovered")
		},
		Next: isOperational,
	}))

	// 6. Metrics
	if cfg.MetricsEnabled {
		app.Use(metrics.Middleware())
	}

	uploadDir := ""
	if media.ResolveBackend(cfg) == media.BackendLocal {
		uploadDir = cfg.Local_UploadDir
	}

	err := router.SetupRoutes(app,
		router.System(router.SystemOptions{
			Ping:           func() error { return database.Ping(global.MongoDB_Session) },
			MetricsEnabled: cfg.MetricsEnabled,
			UploadDir:      uploadDir,
		}),
		exporouter.Register,
	)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	return app
}
