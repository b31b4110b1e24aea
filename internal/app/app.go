// Package app wires configuration, storage and the HTTP server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mavegui/API-Investimentos/internal/config"
	"github.com/Mavegui/API-Investimentos/internal/db"
	"github.com/Mavegui/API-Investimentos/internal/http/api/cotas"
	"github.com/Mavegui/API-Investimentos/internal/logging"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate opens the database and runs schema migrations, then exits.
func Migrate(cfg config.Config) error {
	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer closeDB(conn)
	return db.Migrate(conn)
}

// RunServer boots the cotas API server and blocks until shutdown.
func RunServer(cfg config.Config) error {
	logging.Setup(cfg.Logging)

	conn, err := db.Open(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer closeDB(conn)
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	log.WithField("dialect", db.DialectName(conn)).Info("database ready")

	engine := newEngine(conn)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("starting http server")
		if errServe := server.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			errCh <- errServe
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case errServe := <-errCh:
		return fmt.Errorf("http server: %w", errServe)
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
		return fmt.Errorf("http shutdown: %w", errShutdown)
	}
	log.Info("server exited")
	return nil
}

// newEngine builds the gin engine with middleware and routes.
func newEngine(conn *gorm.DB) *gin.Engine {
	engine := gin.New()
	engine.Use(requestLogger(), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.WithField("panic", recovered).Error("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "an unexpected error occurred"})
	}))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	cotas.RegisterRoutes(engine, conn)
	return engine
}

// requestLogger logs each request through logrus.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

func closeDB(conn *gorm.DB) {
	sqlDB, errDB := conn.DB()
	if errDB != nil {
		return
	}
	if errClose := sqlDB.Close(); errClose != nil {
		log.WithError(errClose).Warn("closing database connection")
	}
}
