package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/basit/download-tracker/auth/middleware"
	"github.com/basit/download-tracker/catalog"
	"github.com/basit/download-tracker/graph"
	"github.com/basit/download-tracker/graph/resolvers"
	"github.com/basit/download-tracker/handlers"
	"github.com/basit/download-tracker/initializers"
	"github.com/basit/download-tracker/reports"
	"github.com/basit/download-tracker/routes"
	"github.com/basit/download-tracker/store"
	"github.com/basit/download-tracker/web"
)

func main() {
	cfg, err := initializers.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	db, err := initializers.ConnectToDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	recordStore := store.New(db)

	reportService, err := reports.NewService(recordStore, reports.WithCacheTTL(cfg.ReportCacheTTL))
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer reportService.Close()

	artifacts, err := catalog.Load(cfg.ArtifactsFile)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("❌ Failed to load artifact catalog: %v", err)
		}
		log.Printf("⚠️  Warning: artifact catalog %s not found, downloads page is empty", cfg.ArtifactsFile)
	}

	presigner, err := initializers.InitAWS(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	h := &handlers.Handler{
		Reports:         reportService,
		Store:           recordStore,
		Catalog:         artifacts,
		Bucket:          cfg.AWSBucket,
		URLTTL:          cfg.DownloadURLTTL,
		RecordDownloads: cfg.RecordDownloads,
	}
	if presigner != nil {
		h.Presigner = presigner
	}

	srv := graph.NewServer(&resolvers.Resolver{Reports: reportService})

	templates, err := web.Templates()
	if err != nil {
		log.Fatalf("❌ Failed to parse templates: %v", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	router := gin.Default()
	router.SetHTMLTemplate(templates)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestID())

	routes.RegisterDownloadRoutes(router, h, routes.Options{
		ReportSecret:  []byte(cfg.ReportJWTSecret),
		RecordLimiter: limiter,
		GraphQL:       srv,
	})

	if cfg.RecordDownloads {
		log.Println("📥 Download recording is enabled")
	}
	if cfg.ReportJWTSecret == "" {
		log.Println("⚠️  Warning: REPORT_JWT_SECRET is not set, download statistics are public")
	}
	log.Printf("serving downloads on http://localhost:%s/downloads", cfg.Port)
	log.Printf("GraphQL statistics on http://localhost:%s/graphql", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
