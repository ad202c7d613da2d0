package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemasFixedOrder(t *testing.T) {
	first := Schemas()
	require.Len(t, first, 3)

	assert.Equal(t, NameWikipedia, first[0].Name)
	assert.Equal(t, NameDuckDuckGo, first[1].Name)
	assert.Equal(t, NameScrape, first[2].Name)

	assert.Equal(t, []string{"query"}, first[0].InputSchema.Required)
	assert.Equal(t, []string{"query"}, first[1].InputSchema.Required)
	assert.Equal(t, []string{"url"}, first[2].InputSchema.Required)

	// Mutating the returned slice must not leak into later rounds.
	first[0].Name = "changed"
	assert.Equal(t, NameWikipedia, Schemas()[0].Name)
}

func TestSchemasMatchResolve(t *testing.T) {
	for i, s := range Schemas() {
		kind, err := Resolve(s.Name)
		require.NoError(t, err)
		assert.Equal(t, Kinds[i], kind)
		assert.NotEmpty(t, s.Description)
	}
}

func TestToOpenAIResponses(t *testing.T) {
	assert.Nil(t, ToOpenAIResponses(nil))

	converted := ToOpenAIResponses(Schemas())
	require.Len(t, converted, 3)

	for i, tool := range converted {
		require.NotNil(t, tool.OfFunction)
		assert.Equal(t, Schemas()[i].Name, tool.OfFunction.Name)
		assert.Equal(t, "object", tool.OfFunction.Parameters["type"])
		assert.Contains(t, tool.OfFunction.Parameters, "properties")
		assert.Equal(t, Schemas()[i].InputSchema.Required, tool.OfFunction.Parameters["required"])
	}
}

func TestToAnthropic(t *testing.T) {
	assert.Nil(t, ToAnthropic(nil))

	converted := ToAnthropic(Schemas())
	require.Len(t, converted, 3)
	for i, tool := range converted {
		require.NotNil(t, tool.OfTool)
		assert.Equal(t, Schemas()[i].Name, tool.OfTool.Name)
		assert.Equal(t, Schemas()[i].InputSchema.Required, tool.OfTool.InputSchema.Required)
	}
}

func TestToOllama(t *testing.T) {
	assert.Empty(t, ToOllama(nil))

	converted := ToOllama(Schemas())
	require.Len(t, converted, 3)

	scrape := converted[2]
	assert.Equal(t, "function", scrape.Type)
	assert.Equal(t, NameScrape, scrape.Function.Name)
	assert.Equal(t, []string{"url"}, scrape.Function.Parameters.Required)

	prop, ok := scrape.Function.Parameters.Properties["url"]
	require.True(t, ok)
	assert.Equal(t, "the url with found in searching duckduckgo", prop.Description)
}
