package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gestorfacturas/facturas-api/config"
	"github.com/gestorfacturas/facturas-api/handlers"
	"github.com/gestorfacturas/facturas-api/logger"
	"github.com/gestorfacturas/facturas-api/middleware"
	"github.com/gestorfacturas/facturas-api/routes"
	"github.com/gestorfacturas/facturas-api/services"
	"github.com/gestorfacturas/facturas-api/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := logger.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatal().Err(err).Msg("Invalid log configuration")
	}

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create uploads directory")
	}

	wsHandler := handlers.NewWSHandler()
	exporter := services.NewExporter(st, cfg.UploadsDir, cfg.PublicURL)
	h := handlers.NewHandler(st, wsHandler, exporter)
	uh := &handlers.UploadHandler{Dir: cfg.UploadsDir, PublicURL: cfg.PublicURL}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	router.Use(middleware.RateLimiter(cfg.RateLimit, time.Minute))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(cfg.AuthSecret))
	{
		routes.SetupResourceRoutes(v1, h)
		routes.SetupUploadRoutes(v1, uh)
	}

	router.Static("/uploads", cfg.UploadsDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	log.Info().Str("port", cfg.Port).Msg("🚀 Server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// openStore picks the backend: Postgres when DATABASE_URL is set, otherwise
// the local JSON store so the server runs with zero infrastructure.
func openStore(cfg config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Info().Str("dir", cfg.DataDir).Msg("DATABASE_URL not set, using local store")
		return store.NewLocal(cfg.DataDir)
	}

	db, err := config.InitDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := config.RunMigrations(db); err != nil {
		return nil, err
	}
	log.Info().Msg("✅ Database connected")
	return store.NewPostgres(db), nil
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("request")
	}
}
