package chat

import "encoding/json"

// Message is one bot response as the dialogue framework expects it.
// Response names a template defined in the framework domain; Params fill its placeholders.
type Message struct {
	Response string
	Text     string
	Buttons  []Button
	Custom   any
	Params   map[string]any
}

type Button struct {
	Title       string `json:"title"`
	Payload     string `json:"payload"`
	ContentType string `json:"content_type,omitempty"`
}

func Utter(response string) Message {
	return Message{Response: response}
}

// With returns a copy of m with an extra template parameter.
func (m Message) With(key string, value any) Message {
	params := make(map[string]any, len(m.Params)+1)
	for k, v := range m.Params {
		params[k] = v
	}
	params[key] = value
	m.Params = params

	return m
}

func (m Message) WithButtons(buttons []Button) Message {
	m.Buttons = buttons
	return m
}

func (m Message) WithCustom(custom any) Message {
	m.Custom = custom
	return m
}

func (m Message) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 8+len(m.Params))

	for k, v := range m.Params {
		out[k] = v
	}

	var response any
	if m.Response != "" {
		response = m.Response
	}

	var text any
	if m.Text != "" {
		text = m.Text
	}

	buttons := m.Buttons
	if buttons == nil {
		buttons = []Button{}
	}

	custom := m.Custom
	if custom == nil {
		custom = map[string]any{}
	}

	out["text"] = text
	out["buttons"] = buttons
	out["elements"] = []any{}
	out["custom"] = custom
	out["template"] = response
	out["response"] = response
	out["image"] = nil
	out["attachment"] = nil

	return json.Marshal(out)
}
