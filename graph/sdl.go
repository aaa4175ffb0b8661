package graph

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

// FormatSDL returns SchemaSDL in canonical form
func FormatSDL() (string, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: "schema.graphqls", Input: SchemaSDL})
	if err != nil {
		return "", fmt.Errorf("failed to parse schema: %w", err)
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	return buf.String(), nil
}

// SDLHandler serves the schema document
func SDLHandler() (http.HandlerFunc, error) {
	sdl, err := FormatSDL()
	if err != nil {
		return nil, err
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(sdl))
	}, nil
}
