package testutil

import (
	"encoding/json"
	"time"

	"rtui/model"
)

// TestMessages returns a sample conversation for testing
func TestMessages() []model.Message {
	return []model.Message{
		{Role: model.RoleUser, Content: "Hello, how are you?", Timestamp: time.Now()},
		{Role: model.RoleAssistant, Content: "I'm doing well, thank you!", Timestamp: time.Now()},
		{Role: model.RoleUser, Content: "Can you help me with a task?", Timestamp: time.Now()},
	}
}

// FinalResponse builds a response carrying only message text.
func FinalResponse(handle, text string) *model.Response {
	return &model.Response{
		Handle: model.NewHandle(handle),
		Output: []model.OutputItem{{Text: text}},
	}
}

// ToolResponse builds a response requesting the given calls.
func ToolResponse(handle string, calls ...model.ToolCallRequest) *model.Response {
	resp := &model.Response{Handle: model.NewHandle(handle)}
	for i := range calls {
		call := calls[i]
		resp.Output = append(resp.Output, model.OutputItem{ToolCall: &call})
	}
	return resp
}

// Call builds a tool call request with JSON-encoded args.
func Call(id, name string, args map[string]string) model.ToolCallRequest {
	data, _ := json.Marshal(args)
	return model.ToolCallRequest{Name: name, CallID: id, Arguments: string(data)}
}

func Wikipedia(id, query string) model.ToolCallRequest {
	return Call(id, "wikipedia_search", map[string]string{"query": query})
}

func DuckDuckGo(id, query string) model.ToolCallRequest {
	return Call(id, "duckduckgo_search", map[string]string{"query": query})
}

func Scrape(id, url string) model.ToolCallRequest {
	return Call(id, "scrape_website", map[string]string{"url": url})
}
