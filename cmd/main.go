package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/franciscosanchezn/gin-canteen-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-canteen-api/internal/auth"
	"github.com/franciscosanchezn/gin-canteen-api/internal/config"
	"github.com/franciscosanchezn/gin-canteen-api/internal/database"
	"github.com/franciscosanchezn/gin-canteen-api/internal/messaging"
	"github.com/franciscosanchezn/gin-canteen-api/internal/seed"
	"github.com/franciscosanchezn/gin-canteen-api/internal/server"
	"github.com/franciscosanchezn/gin-canteen-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// @title Canteen API
// @version 1.0
// @description Employee canteen: meals, orders, deliveries and employee records
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration := loadConfig()
	if configuration.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database connection
	db := setupDatabase(configuration)

	// Events go to RabbitMQ when configured, to the log otherwise
	publisher, closePublisher := setupPublisher(configuration)
	defer closePublisher()

	router := server.NewRouter(server.Dependencies{
		DB:          db,
		Publisher:   publisher,
		JWTSecret:   configuration.JWTSecret,
		TokenTTL:    time.Duration(configuration.TokenTTLHours) * time.Hour,
		CORSOrigins: configuration.CORSOrigins,
		Logger:      log.StandardLogger(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go purgeExpiredTokens(ctx, auth.NewGormTokenStore(db), time.Hour)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%v:%d", configuration.Host, configuration.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server stopped")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment.
// An explicit LOG_LEVEL wins over the environment default.
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := log.ParseLevel(raw)
		if err != nil {
			log.Warnf("Ignoring invalid LOG_LEVEL %q", raw)
			return
		}
		log.SetLevel(level)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects, migrates the schema and seeds an empty catalog
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(conf.Database())
	checkPanicErr(err)
	checkPanicErr(database.Migrate(db))

	seedFile, err := seed.Load(conf.SeedFile)
	checkPanicErr(err)
	seeded, err := seed.Apply(context.Background(), db, seedFile)
	checkPanicErr(err)
	if seeded && conf.SeedFile == "" {
		log.Warn("Seeded the default admin account, change its password")
	}
	return db
}

func setupPublisher(conf *config.Config) (services.EventPublisher, func()) {
	if conf.AMQPURL == "" {
		log.Info("AMQP_URL not set, events are only logged")
		return messaging.LogPublisher{Logger: log.StandardLogger()}, func() {}
	}

	publisher, err := messaging.Dial(conf.AMQPURL, conf.AMQPExchange)
	checkPanicErr(err)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("Failed to close RabbitMQ connection")
		}
	}
}

// purgeExpiredTokens removes expired OAuth tokens every interval until ctx is done
func purgeExpiredTokens(ctx context.Context, store *auth.GormTokenStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			removed, err := store.DeleteExpired(ctx, now)
			if err != nil {
				log.WithError(err).Warn("Failed to purge expired tokens")
				continue
			}
			if removed > 0 {
				log.WithField("removed", removed).Debug("Purged expired tokens")
			}
		}
	}
}
