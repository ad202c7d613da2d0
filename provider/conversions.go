package provider

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/google/uuid"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3/responses"

	"rtui/model"
)

// ConvertToResponsesInput converts a request to Responses API input items.
// The instruction travels as a system message so it stays part of the
// context chained through previous_response_id.
func ConvertToResponsesInput(req model.Request) responses.ResponseInputParam {
	items := make(responses.ResponseInputParam, 0, len(req.Input)+1)
	if req.Instructions != "" {
		items = append(items, responses.ResponseInputItemParamOfMessage(req.Instructions, responses.EasyInputMessageRoleSystem))
	}
	for _, in := range req.Input {
		switch {
		case in.Message != nil:
			items = append(items, responses.ResponseInputItemParamOfMessage(in.Message.Content, responses.EasyInputMessageRole(in.Message.Role)))
		case in.Result != nil:
			items = append(items, responses.ResponseInputItemParamOfFunctionCallOutput(in.Result.CallID, in.Result.Output))
		}
	}
	return items
}

// ConvertFromResponses converts a Responses API response. Output items other
// than messages and function calls (reasoning, for example) are skipped.
func ConvertFromResponses(resp *responses.Response) *model.Response {
	out := &model.Response{Handle: model.NewHandle(resp.ID)}
	for _, item := range resp.Output {
		switch item.Type {
		case "function_call":
			call := item.AsFunctionCall()
			out.Output = append(out.Output, model.OutputItem{ToolCall: &model.ToolCallRequest{
				Name:      call.Name,
				CallID:    call.CallID,
				Arguments: call.Arguments,
			}})
		case "message":
			for _, part := range item.AsMessage().Content {
				if part.Type == "output_text" && part.Text != "" {
					out.Output = append(out.Output, model.OutputItem{Text: part.Text})
				}
			}
		}
	}
	return out
}

// ConvertToAnthropicMessages converts request input to Anthropic messages.
// System messages are returned separately; consecutive tool results are
// grouped into a single user message.
func ConvertToAnthropicMessages(input []model.InputItem) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var system []anthropic.TextBlockParam
	msgs := make([]anthropic.MessageParam, 0, len(input))
	var results []anthropic.ContentBlockParamUnion

	flush := func() {
		if len(results) > 0 {
			msgs = append(msgs, anthropic.NewUserMessage(results...))
			results = nil
		}
	}

	for _, in := range input {
		if in.Result != nil {
			results = append(results, anthropic.NewToolResultBlock(in.Result.CallID, in.Result.Output, false))
			continue
		}
		if in.Message == nil {
			continue
		}
		flush()
		switch in.Message.Role {
		case model.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: in.Message.Content})
		case model.RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(in.Message.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(in.Message.Content)))
		}
	}
	flush()
	return msgs, system
}

// ConvertFromAnthropicContent extracts text and tool use blocks in order.
func ConvertFromAnthropicContent(content []anthropic.ContentBlockUnion) []model.OutputItem {
	var out []model.OutputItem
	for _, block := range content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			if b.Text != "" {
				out = append(out, model.OutputItem{Text: b.Text})
			}
		case anthropic.ToolUseBlock:
			args := string(b.Input)
			if args == "" {
				args = "{}"
			}
			out = append(out, model.OutputItem{ToolCall: &model.ToolCallRequest{
				Name:      b.Name,
				CallID:    b.ID,
				Arguments: args,
			}})
		}
	}
	return out
}

// ConvertToOllamaMessages converts request input to Ollama chat messages.
// Ollama pairs a "tool" message with its call by position and tool name, so
// results for the issued calls follow in issued order with ToolName set.
// Results for ids not in issued keep input order.
func ConvertToOllamaMessages(req model.Request, issued []model.ToolCallRequest) []api.Message {
	msgs := make([]api.Message, 0, len(req.Input)+1)
	if req.Instructions != "" {
		msgs = append(msgs, api.Message{Role: string(model.RoleSystem), Content: req.Instructions})
	}

	results := make(map[string]string)
	var stray []model.ToolCallResult
	known := make(map[string]bool, len(issued))
	for _, call := range issued {
		known[call.CallID] = true
	}
	for _, in := range req.Input {
		switch {
		case in.Message != nil:
			msgs = append(msgs, api.Message{Role: string(in.Message.Role), Content: in.Message.Content})
		case in.Result != nil:
			if known[in.Result.CallID] {
				results[in.Result.CallID] = in.Result.Output
			} else {
				stray = append(stray, *in.Result)
			}
		}
	}

	for _, call := range issued {
		out, ok := results[call.CallID]
		if !ok {
			continue
		}
		msgs = append(msgs, api.Message{Role: "tool", ToolName: call.Name, Content: out})
	}
	for _, r := range stray {
		msgs = append(msgs, api.Message{Role: "tool", Content: r.Output})
	}
	return msgs
}

// ConvertFromOllamaMessage converts an assistant reply. Ollama does not
// identify tool calls, so each call gets a generated id.
func ConvertFromOllamaMessage(msg api.Message) []model.OutputItem {
	var out []model.OutputItem
	if msg.Content != "" {
		out = append(out, model.OutputItem{Text: msg.Content})
	}
	for _, call := range msg.ToolCalls {
		out = append(out, model.OutputItem{ToolCall: &model.ToolCallRequest{
			Name:      call.Function.Name,
			CallID:    "call_" + uuid.NewString(),
			Arguments: ParseToolArguments(call.Function.Arguments),
		}})
	}
	return out
}

// ParseToolArguments encodes Ollama's decoded arguments back to JSON.
func ParseToolArguments(args any) string {
	data, err := json.Marshal(args)
	if err != nil || string(data) == "null" {
		return "{}"
	}
	return string(data)
}
