package graph

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/basit/download-tracker/models"
	"github.com/basit/download-tracker/reports"
)

// NewExecutableSchema serves schema.graphqls. The schema has a single query
// field, so selections are resolved here directly instead of through
// generated per-type code.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{resolvers: cfg.Resolvers}
}

type executableSchema struct {
	resolvers ResolverRoot
}

func (e *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

func (e *executableSchema) Complexity(ctx context.Context, typeName, field string, childComplexity int, rawArgs map[string]any) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	if opCtx.Operation.Operation != ast.Query {
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}

	first := true
	return func(ctx context.Context) *graphql.Response {
		if !first {
			return nil
		}
		first = false

		ec := &executionContext{opCtx: opCtx, resolvers: e.resolvers}
		data := ec.query(ctx, opCtx.Operation.SelectionSet)
		var buf bytes.Buffer
		data.MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes(), Errors: ec.errors}
	}
}

type executionContext struct {
	opCtx     *graphql.OperationContext
	resolvers ResolverRoot
	errors    gqlerror.List
}

func (ec *executionContext) fields(sel ast.SelectionSet, typeName string) []graphql.CollectedField {
	return graphql.CollectFields(ec.opCtx, sel, []string{typeName})
}

func (ec *executionContext) query(ctx context.Context, sel ast.SelectionSet) graphql.Marshaler {
	out := &object{}
	for _, field := range ec.fields(sel, "Query") {
		switch field.Name {
		case "__typename":
			out.add(field.Alias, graphql.MarshalString("Query"))
		case "downloadStats":
			out.add(field.Alias, ec.downloadStats(ctx, field))
		default:
			ec.errors = append(ec.errors, gqlerror.ErrorPathf(ast.Path{ast.PathName(field.Alias)}, "field %s is not supported", field.Name))
			out.add(field.Alias, graphql.Null)
		}
	}
	return out
}

func (ec *executionContext) downloadStats(ctx context.Context, field graphql.CollectedField) graphql.Marshaler {
	var mode *string
	if value, ok := field.ArgumentMap(ec.opCtx.Variables)["mode"].(string); ok {
		mode = &value
	}

	report, err := ec.resolvers.Query().DownloadStats(ctx, mode)
	if err != nil {
		message := err.Error()
		var gqlErr *gqlerror.Error
		if errors.As(err, &gqlErr) {
			message = gqlErr.Message
		}
		ec.errors = append(ec.errors, gqlerror.ErrorPathf(ast.Path{ast.PathName(field.Alias)}, "%s", message))
		return graphql.Null
	}
	if report == nil {
		return graphql.Null
	}
	return ec.statsReport(field.Selections, report)
}

func (ec *executionContext) statsReport(sel ast.SelectionSet, report *reports.Report) graphql.Marshaler {
	out := &object{}
	for _, field := range ec.fields(sel, "StatsReport") {
		switch field.Name {
		case "__typename":
			out.add(field.Alias, graphql.MarshalString("StatsReport"))
		case "mode":
			out.add(field.Alias, graphql.MarshalString(report.Mode.String()))
		case "general":
			if report.General == nil {
				out.add(field.Alias, graphql.Null)
				continue
			}
			out.add(field.Alias, ec.generalReport(field.Selections, report.General))
		case "people":
			if report.People == nil {
				out.add(field.Alias, graphql.Null)
				continue
			}
			out.add(field.Alias, ec.peopleReport(field.Selections, report.People))
		default:
			out.add(field.Alias, graphql.Null)
		}
	}
	return out
}

func (ec *executionContext) generalReport(sel ast.SelectionSet, general *reports.GeneralReport) graphql.Marshaler {
	out := &object{}
	for _, field := range ec.fields(sel, "GeneralReport") {
		switch field.Name {
		case "__typename":
			out.add(field.Alias, graphql.MarshalString("GeneralReport"))
		case "allTime":
			out.add(field.Alias, ec.affiliationStats(field.Selections, general.AllTime))
		case "last30Days":
			out.add(field.Alias, ec.affiliationStats(field.Selections, general.Last30Days))
		case "generatedAt":
			out.add(field.Alias, graphql.MarshalTime(general.GeneratedAt))
		default:
			out.add(field.Alias, graphql.Null)
		}
	}
	return out
}

func (ec *executionContext) affiliationStats(sel ast.SelectionSet, stats []models.AffiliationStat) graphql.Marshaler {
	list := make(graphql.Array, 0, len(stats))
	for _, stat := range stats {
		out := &object{}
		for _, field := range ec.fields(sel, "AffiliationStat") {
			switch field.Name {
			case "__typename":
				out.add(field.Alias, graphql.MarshalString("AffiliationStat"))
			case "affiliation":
				if stat.NullAffiliation {
					out.add(field.Alias, graphql.Null)
					continue
				}
				out.add(field.Alias, graphql.MarshalString(stat.Affiliation))
			case "count":
				out.add(field.Alias, graphql.MarshalInt64(stat.Count))
			case "lastDownload":
				out.add(field.Alias, graphql.MarshalTime(stat.LastDownload))
			default:
				out.add(field.Alias, graphql.Null)
			}
		}
		list = append(list, out)
	}
	return list
}

func (ec *executionContext) peopleReport(sel ast.SelectionSet, people *reports.PeopleReport) graphql.Marshaler {
	out := &object{}
	for _, field := range ec.fields(sel, "PeopleReport") {
		switch field.Name {
		case "__typename":
			out.add(field.Alias, graphql.MarshalString("PeopleReport"))
		case "records":
			out.add(field.Alias, ec.downloadRecords(field.Selections, people.Records))
		default:
			out.add(field.Alias, graphql.Null)
		}
	}
	return out
}

func (ec *executionContext) downloadRecords(sel ast.SelectionSet, records []models.DownloadRecord) graphql.Marshaler {
	list := make(graphql.Array, 0, len(records))
	for _, rec := range records {
		out := &object{}
		for _, field := range ec.fields(sel, "DownloadRecord") {
			switch field.Name {
			case "__typename":
				out.add(field.Alias, graphql.MarshalString("DownloadRecord"))
			case "id":
				out.add(field.Alias, graphql.MarshalID(strconv.FormatUint(uint64(rec.ID), 10)))
			case "name":
				out.add(field.Alias, graphql.MarshalString(rec.Name))
			case "email":
				out.add(field.Alias, graphql.MarshalString(rec.Email))
			case "affiliation":
				out.add(field.Alias, graphql.MarshalString(rec.Affiliation))
			case "date":
				out.add(field.Alias, graphql.MarshalTime(rec.Date))
			default:
				out.add(field.Alias, graphql.Null)
			}
		}
		list = append(list, out)
	}
	return list
}

// object writes its fields in selection order.
type object struct {
	keys   []string
	values []graphql.Marshaler
}

func (o *object) add(key string, value graphql.Marshaler) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

func (o *object) MarshalGQL(w io.Writer) {
	io.WriteString(w, "{")
	for i, key := range o.keys {
		if i > 0 {
			io.WriteString(w, ",")
		}
		graphql.MarshalString(key).MarshalGQL(w)
		io.WriteString(w, ":")
		o.values[i].MarshalGQL(w)
	}
	io.WriteString(w, "}")
}
