package main

import (
	"flag"
	"net/http"

	"epraja-api/config"
	"epraja-api/handlers"
	"epraja-api/notify"
	"epraja-api/routes"
	"epraja-api/ws"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgFile := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	gin.SetMode(cfg.GinMode)

	if err := config.InitDB(cfg.DBPath); err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	logger.WithField("db_path", cfg.DBPath).Info("Database connected and migrated")

	hub := ws.NewHub(logger)
	go hub.Run()

	handlers.Init(cfg, hub, &notify.WhatsAppNotifier{Logger: logger}, logger)

	r := gin.Default()

	// CORS middleware for the dashboard frontends
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Uploaded restaurant images
	r.Static("/uploads", cfg.UploadDir)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "E-Pra-Ja Platform API",
			"clients": hub.ClientCount(),
		})
	})

	routes.SetupRoutes(r)

	logger.WithField("port", cfg.Port).Info("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Failed to start server")
	}
}
