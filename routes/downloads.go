package routes

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/basit/download-tracker/auth/middleware"
	"github.com/basit/download-tracker/handlers"
)

// Options carries what route registration needs beyond the handler itself.
type Options struct {
	ReportSecret []byte
	// RecordLimiter throttles the record paths; nil disables throttling.
	RecordLimiter *middleware.RateLimiter
	// GraphQL serves the statistics schema on /graphql when set.
	GraphQL http.Handler
}

func RegisterDownloadRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	var recordGuards []gin.HandlerFunc
	if opts.RecordLimiter != nil {
		recordGuards = append(recordGuards, opts.RecordLimiter.Middleware())
	}
	guarded := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clone(recordGuards), handler)
	}

	r.GET("/healthz", h.Health)

	downloads := r.Group("/downloads")
	downloads.GET("", h.DownloadsPage)
	downloads.GET("/stats", middleware.ReportAuth(opts.ReportSecret), h.StatsPage)
	downloads.GET("/:slug", guarded(h.DownloadArtifact)...)

	api := r.Group("/api/downloads")
	api.GET("/stats", middleware.ReportAuth(opts.ReportSecret), h.StatsJSON)
	if h.RecordDownloads {
		api.POST("", guarded(h.RecordDownload)...)
	}

	if opts.GraphQL != nil {
		r.POST("/graphql", middleware.ReportAuth(opts.ReportSecret), gin.WrapH(opts.GraphQL))
	}
}
