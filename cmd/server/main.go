package main

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expo_leads/internal/database"
	"expo_leads/internal/global"
	"expo_leads/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// initLogger sets up logging from the LOG_* environment variables
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// main_thread runs the server until it stops listening
func main_thread(app *fiber.App) {
	cfg := global.MongoDB_ServerConfig
	address := cfg.ListenAddress()
	log := logger.GetAppLogger()

	if cfg.EnableTLS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
		if err != nil {
			log.Fatalf("Error loading TLS certificate: %v", err)
		}

		ln, err := net.Listen("tcp", address)
		if err != nil {
			log.Fatalf("Error creating listener: %v", err)
		}
		tlsListener := tls.NewListener(ln, &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		})

		log.WithFields(map[string]interface{}{
			"address": address,
			"cert":    cfg.TLSCertFile,
		}).Info("Starting server with HTTPS/TLS")

		if err := app.Listener(tlsListener, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
			log.Fatalf("Error in Fiber Listener with TLS: %v", err)
		}
		return
	}

	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting server with HTTP")

	if err := app.Listen(address, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}
}

// waitForShutdown stops the server on SIGINT/SIGTERM and releases the database, media store and log files
func waitForShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit

	log := logger.GetAppLogger()
	log.WithField("signal", sig.String()).Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
	if _, err := global.RegistryCollections.ClearAll(nil); err != nil {
		log.WithError(err).Error("Failed to clear collection registry")
	}
	if c, ok := global.MediaStore.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.WithError(err).Error("Failed to close media store")
		}
	}
	if err := database.CloseInstance(global.MongoDB_Session); err != nil {
		log.WithError(err).Error("Failed to close MongoDB connection")
	}

	log.Info("Server stopped")
	logger.Shutdown()
}

func main() {
	initLogger()

	InitGlobal()

	InitRegistry()

	InitDefaultData()

	app := InitFiberApp()
	stopped := make(chan struct{})
	go func() {
		waitForShutdown(app)
		close(stopped)
	}()

	main_thread(app)
	<-stopped
}
