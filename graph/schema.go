package graph

import (
	"context"
	_ "embed"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/basit/download-tracker/reports"
)

//go:embed schema.graphqls
var sourceData string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: sourceData})

type QueryResolver interface {
	DownloadStats(ctx context.Context, mode *string) (*reports.Report, error)
}

type ResolverRoot interface {
	Query() QueryResolver
}

type Config struct {
	Resolvers ResolverRoot
}
