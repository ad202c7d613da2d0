package tools

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
)

var schemas = []mcptypes.Tool{
	mcptypes.NewTool(NameWikipedia,
		mcptypes.WithDescription("Given a query (i.e Research the Apple Company), Search in Wikipedia and return search results. Use tools to research. Do not rely on prior knowledge."),
		mcptypes.WithString("query",
			mcptypes.Required(),
			mcptypes.Description("The query about a topic"),
		),
	),
	mcptypes.NewTool(NameDuckDuckGo,
		mcptypes.WithDescription("Given a query (i.e Research the Apple Company), Search in DuckDuckGo and return search results. Use tools to research. Do not rely on prior knowledge."),
		mcptypes.WithString("query",
			mcptypes.Required(),
			mcptypes.Description("The query about a topic"),
		),
	),
	mcptypes.NewTool(NameScrape,
		mcptypes.WithDescription("When duckduckgo_search found a website url, Enter the website and Use this tool to extract its contents."),
		mcptypes.WithString("url",
			mcptypes.Required(),
			mcptypes.Description("the url with found in searching duckduckgo"),
		),
	),
}

// Schemas returns the tool declarations in fixed order: wikipedia_search,
// duckduckgo_search, scrape_website. The returned slice is a copy.
func Schemas() []mcptypes.Tool {
	out := make([]mcptypes.Tool, len(schemas))
	copy(out, schemas)
	return out
}

// parameters renders an input schema as a JSON Schema object.
func parameters(tool mcptypes.Tool) map[string]any {
	params := map[string]any{
		"type":       tool.InputSchema.Type,
		"properties": tool.InputSchema.Properties,
	}
	if len(tool.InputSchema.Required) > 0 {
		params["required"] = tool.InputSchema.Required
	}
	if tool.InputSchema.Defs != nil {
		params["$defs"] = tool.InputSchema.Defs
	}
	return params
}

// ToOpenAIResponses converts tool declarations to Responses API function tools.
func ToOpenAIResponses(tools []mcptypes.Tool) []responses.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]responses.ToolUnionParam, len(tools))
	for i, tool := range tools {
		result[i] = responses.ToolParamOfFunction(tool.Name, parameters(tool), false)
		if tool.Description != "" {
			result[i].OfFunction.Description = openai.String(tool.Description)
		}
	}
	return result
}

// ToAnthropic converts tool declarations to the Messages API tool format.
func ToAnthropic(tools []mcptypes.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}

	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		// Type defaults to "object" when omitted
		inputSchema := anthropic.ToolInputSchemaParam{
			Properties: tool.InputSchema.Properties,
		}
		if len(tool.InputSchema.Required) > 0 {
			inputSchema.Required = tool.InputSchema.Required
		}

		result[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
		if tool.Description != "" {
			result[i].OfTool.Description = anthropic.String(tool.Description)
		}
	}
	return result
}

// ToOllama converts tool declarations to the Ollama chat tool format.
func ToOllama(tools []mcptypes.Tool) []api.Tool {
	result := make([]api.Tool, 0, len(tools))
	for _, tool := range tools {
		params := api.ToolFunctionParameters{
			Type:       tool.InputSchema.Type,
			Required:   tool.InputSchema.Required,
			Properties: make(map[string]api.ToolProperty),
		}
		for name, value := range tool.InputSchema.Properties {
			params.Properties[name] = ollamaProperty(value)
		}

		result = append(result, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  params,
			},
		})
	}
	return result
}

func ollamaProperty(value any) api.ToolProperty {
	prop := api.ToolProperty{}

	propMap, ok := value.(map[string]any)
	if !ok {
		data, err := json.Marshal(value)
		if err != nil {
			return prop
		}
		if err := json.Unmarshal(data, &propMap); err != nil {
			return prop
		}
	}

	switch t := propMap["type"].(type) {
	case string:
		prop.Type = api.PropertyType{t}
	case []string:
		prop.Type = api.PropertyType(t)
	}
	if desc, ok := propMap["description"].(string); ok {
		prop.Description = desc
	}
	return prop
}
