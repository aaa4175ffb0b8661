package graph

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

func TestSchemaSDLIsValid(t *testing.T) {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphqls", Input: SchemaSDL})
	require.NoError(t, err)

	for _, name := range []string{"Photo", "User", "AuthPayload", "PostPhotoInput", "PhotoCategory", "DateTime"} {
		assert.NotNil(t, schema.Types[name], "missing type %s", name)
	}
	require.NotNil(t, schema.Mutation)
	assert.NotNil(t, schema.Mutation.Fields.ForName("postPhoto"))
	assert.NotNil(t, schema.Mutation.Fields.ForName("githubAuth"))
	require.NotNil(t, schema.Subscription)
	assert.NotNil(t, schema.Subscription.Fields.ForName("newPhoto"))
	assert.NotNil(t, schema.Subscription.Fields.ForName("newUser"))
}

func TestSDLHandler(t *testing.T) {
	handler, err := SDLHandler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/schema.graphql", nil))

	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, string(body), "type Photo")
	assert.Contains(t, string(body), "githubAuth(code: String!): AuthPayload!")
}
