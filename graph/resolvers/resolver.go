package resolvers

import (
	"context"
	"log"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/basit/download-tracker/auth"
	"github.com/basit/download-tracker/graph"
	"github.com/basit/download-tracker/reports"
)

type ReportService interface {
	Report(ctx context.Context, mode reports.Mode) (reports.Report, error)
}

// Resolver holds dependencies and implements graph.ResolverRoot
type Resolver struct {
	Reports ReportService
}

func (r *Resolver) Query() graph.QueryResolver {
	return &queryResolver{r}
}

type queryResolver struct{ *Resolver }

// DownloadStats follows the stats page: no mode selects the general report,
// an unrecognised one an empty report.
func (r *queryResolver) DownloadStats(ctx context.Context, mode *string) (*reports.Report, error) {
	var value string
	if mode != nil {
		value = *mode
	}
	parsed := reports.ParseMode(value, mode != nil)

	report, err := r.Reports.Report(ctx, parsed)
	if err != nil {
		log.Printf("❌ graphql: failed to build %s report: %v", parsed, err)
		return nil, gqlerror.Errorf("download statistics unavailable")
	}
	if report.People != nil {
		viewer := auth.ViewerFromContext(ctx)
		if viewer == "" {
			viewer = "anonymous"
		}
		log.Printf("👀 graphql: people report (%d records) served to %s", len(report.People.Records), viewer)
	}
	return &report, nil
}
