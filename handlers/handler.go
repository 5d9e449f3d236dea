package handlers

import (
	"context"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"

	"github.com/basit/download-tracker/auth/middleware"
	"github.com/basit/download-tracker/catalog"
	"github.com/basit/download-tracker/reports"
)

// ReportService is the part of reports.Service the handlers use.
type ReportService interface {
	Report(ctx context.Context, mode reports.Mode) (reports.Report, error)
	RecordDownload(ctx context.Context, name, email, affiliation string) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Presigner is satisfied by *s3.PresignClient.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type Handler struct {
	Reports         ReportService
	Store           Pinger
	Catalog         *catalog.Catalog
	Presigner       Presigner
	Bucket          string
	URLTTL          time.Duration
	RecordDownloads bool
}

func requestID(c *gin.Context) string {
	return c.GetString(middleware.RequestIDKey)
}
