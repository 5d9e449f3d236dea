package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/basit/download-tracker/auth/middleware"
	"github.com/basit/download-tracker/reports"
)

const statsTitle = "Downloads Analysis"

func requestedMode(c *gin.Context) reports.Mode {
	value, present := c.GetQuery("mode")
	return reports.ParseMode(value, present)
}

// StatsPage renders the statistics page. Nothing of the report is written
// unless every query for the selected mode succeeded.
func (h *Handler) StatsPage(c *gin.Context) {
	mode := requestedMode(c)
	report, err := h.Reports.Report(c.Request.Context(), mode)
	if err != nil {
		log.Printf("❌ [%s] failed to build %s report: %v", requestID(c), mode, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Title":   statsTitle,
			"Message": "Cannot load download statistics: the download database is unavailable.",
		})
		return
	}

	auditPeopleView(c, report)
	c.HTML(http.StatusOK, "stats.html", gin.H{
		"Title":  statsTitle,
		"Report": report,
	})
}

// auditPeopleView logs who was shown the e-mail listing. The listed
// addresses themselves are never logged.
func auditPeopleView(c *gin.Context, report reports.Report) {
	if report.People == nil {
		return
	}
	viewer := c.GetString(middleware.ViewerKey)
	if viewer == "" {
		viewer = "anonymous"
	}
	log.Printf("👀 [%s] people report (%d records) served to %s", requestID(c), len(report.People.Records), viewer)
}

type statsResponse struct {
	Mode    string                 `json:"mode"`
	General *reports.GeneralReport `json:"general,omitempty"`
	People  *reports.PeopleReport  `json:"people,omitempty"`
}

func (h *Handler) StatsJSON(c *gin.Context) {
	mode := requestedMode(c)
	report, err := h.Reports.Report(c.Request.Context(), mode)
	if err != nil {
		log.Printf("❌ [%s] failed to build %s report: %v", requestID(c), mode, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Download statistics unavailable"})
		return
	}

	auditPeopleView(c, report)
	c.JSON(http.StatusOK, statsResponse{
		Mode:    report.Mode.String(),
		General: report.General,
		People:  report.People,
	})
}
