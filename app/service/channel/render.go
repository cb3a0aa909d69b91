package channel

import (
	"strings"

	"casebot/app/client/dialogue"

	"github.com/spf13/cast"
)

// Render converts a REST reply into the messages the chat widget understands.
// Text is split on blank lines and buttons become quick replies on the last fragment.
func Render(m dialogue.BotMessage) []map[string]any {
	var out []map[string]any

	if m.Text != "" {
		parts := strings.Split(strings.TrimSpace(m.Text), "\n\n")
		for _, part := range parts {
			msg := map[string]any{"text": part}
			if len(m.Buttons) > 0 {
				msg["quick_replies"] = []map[string]any{}
			}
			out = append(out, msg)
		}

		if len(m.Buttons) > 0 {
			out[len(out)-1]["quick_replies"] = quickReplies(m.Buttons)
		}
	}

	if m.Custom != nil {
		if custom, err := cast.ToStringMapE(m.Custom); err == nil {
			copied := make(map[string]any, len(custom)+1)
			for k, v := range custom {
				copied[k] = v
			}
			out = append(out, copied)
		} else {
			out = append(out, map[string]any{"custom": m.Custom})
		}
	}

	if m.Image != "" {
		out = append(out, map[string]any{
			"attachment": map[string]any{
				"type":    "image",
				"payload": map[string]any{"src": m.Image},
			},
		})
	}

	if m.Attachment != nil {
		out = append(out, map[string]any{"attachment": m.Attachment})
	}

	return out
}

func quickReplies(buttons []map[string]any) []map[string]any {
	result := make([]map[string]any, 0, len(buttons))
	for _, b := range buttons {
		result = append(result, map[string]any{
			"content_type": "text",
			"title":        b["title"],
			"payload":      b["payload"],
		})
	}

	return result
}
