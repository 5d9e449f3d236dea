package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"

	"github.com/basit/download-tracker/catalog"
	"github.com/basit/download-tracker/reports"
)

const downloadsTitle = "Downloads"

type recordRequest struct {
	Name        string `json:"name" form:"name" binding:"required,max=255"`
	Email       string `json:"email" form:"email" binding:"required,email,max=255"`
	Affiliation string `json:"affiliation" form:"affiliation" binding:"max=255"`
}

// RecordDownload stores one download request sent as JSON or a form.
func (h *Handler) RecordDownload(c *gin.Context) {
	var body recordRequest
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.Reports.RecordDownload(c.Request.Context(), body.Name, body.Email, body.Affiliation); err != nil {
		if errors.Is(err, reports.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		log.Printf("❌ [%s] failed to record download: %v", requestID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record download"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *Handler) DownloadsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "downloads.html", gin.H{
		"Title":           downloadsTitle,
		"Artifacts":       h.Catalog.All(),
		"RecordDownloads": h.RecordDownloads,
	})
}

// hasRequester reports whether the link carried any requester detail. Once
// one is given, the query must pass the same rules as the record API.
func hasRequester(c *gin.Context) bool {
	for _, key := range []string{"name", "email", "affiliation"} {
		if c.Query(key) != "" {
			return true
		}
	}
	return false
}

func (h *Handler) downloadError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Title": downloadsTitle, "Message": message})
}

// DownloadArtifact logs the requester, when recording is on and they gave
// their details, and redirects to the artifact.
func (h *Handler) DownloadArtifact(c *gin.Context) {
	artifact, err := h.Catalog.Lookup(c.Param("slug"))
	if err != nil {
		h.downloadError(c, http.StatusNotFound, "Download not found.")
		return
	}

	var requester recordRequest
	record := h.RecordDownloads && hasRequester(c)
	if record {
		if err := c.ShouldBindQuery(&requester); err != nil {
			h.downloadError(c, http.StatusBadRequest, "Please check your name, e-mail and affiliation.")
			return
		}
	}

	target, err := h.artifactURL(c, artifact)
	if err != nil {
		log.Printf("❌ [%s] failed to resolve artifact %s: %v", requestID(c), artifact.Slug, err)
		h.downloadError(c, http.StatusServiceUnavailable, "This download is temporarily unavailable.")
		return
	}

	if record {
		err := h.Reports.RecordDownload(c.Request.Context(), requester.Name, requester.Email, requester.Affiliation)
		switch {
		case errors.Is(err, reports.ErrInvalidInput):
			h.downloadError(c, http.StatusBadRequest, "Please check your name, e-mail and affiliation.")
			return
		case err != nil:
			log.Printf("❌ [%s] failed to record download of %s: %v", requestID(c), artifact.Slug, err)
			h.downloadError(c, http.StatusInternalServerError, "Could not register your download, please try again.")
			return
		}
	}

	c.Redirect(http.StatusFound, target)
}

var errNoPresigner = errors.New("artifact storage is not configured")

func (h *Handler) artifactURL(c *gin.Context, artifact catalog.Artifact) (string, error) {
	if artifact.URL != "" {
		return artifact.URL, nil
	}
	if h.Presigner == nil || h.Bucket == "" {
		return "", errNoPresigner
	}
	req, err := h.Presigner.PresignGetObject(c.Request.Context(), &s3.GetObjectInput{
		Bucket: aws.String(h.Bucket),
		Key:    aws.String(artifact.Key),
	}, s3.WithPresignExpires(h.URLTTL))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
