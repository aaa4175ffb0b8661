package graph

import (
	"context"
	_ "embed"
	"fmt"
	"runtime"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/rs/zerolog"
)

// SchemaSDL is the GraphQL schema served by the API
//
//go:embed schema.graphqls
var SchemaSDL string

// Options tunes query execution limits
type Options struct {
	MaxDepth       int
	MaxParallelism int
}

// NewSchema parses SchemaSDL against resolver
func NewSchema(resolver *Resolver, opts Options) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.Logger(&panicLogger{logger: resolver.logger}),
	}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}
	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}

	schema, err := graphql.ParseSchema(SchemaSDL, resolver, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}
	return schema, nil
}

// panicLogger reports resolver panics through zerolog
type panicLogger struct {
	logger zerolog.Logger
}

func (l *panicLogger) LogPanic(ctx context.Context, value interface{}) {
	const size = 64 << 10
	buf := make([]byte, size)
	buf = buf[:runtime.Stack(buf, false)]

	l.logger.Error().
		Interface("panic", value).
		Str("stack", string(buf)).
		Msg("Panic during GraphQL execution")
}
