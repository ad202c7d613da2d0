package research

import (
	"context"
	"fmt"

	"rtui/config"
	"rtui/model"
)

// CompletePlain answers input with one tool-free request carrying the whole
// conversation. history must not already contain input.
func CompletePlain(ctx context.Context, provider model.Provider, history []model.Message, input string) (string, error) {
	items := make([]model.InputItem, 0, len(history)+1)
	for _, msg := range history {
		if !msg.Role.Valid() {
			if config.DebugLog != nil {
				config.DebugLog.Printf("[Research] Dropping history message with role %q", msg.Role)
			}
			continue
		}
		items = append(items, model.MessageInput(msg.Role, msg.Content))
	}
	items = append(items, model.MessageInput(model.RoleUser, input))

	resp, err := provider.Complete(ctx, model.Request{Input: items})
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	return resp.Text(), nil
}
