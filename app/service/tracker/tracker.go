package tracker

import (
	"casebot/app/service/chat"

	"github.com/spf13/cast"
)

const (
	eventUser = "user"
	eventSlot = "slot"
)

// Request is the body the dialogue framework posts to the action webhook.
type Request struct {
	NextAction string  `json:"next_action"`
	SenderID   string  `json:"sender_id"`
	Tracker    Tracker `json:"tracker"`
	Domain     Domain  `json:"domain"`
	Version    string  `json:"version,omitempty"`
}

type Response struct {
	Events    []Event        `json:"events"`
	Responses []chat.Message `json:"responses"`
}

type Tracker struct {
	SenderID         string         `json:"sender_id"`
	Slots            map[string]any `json:"slots"`
	LatestMessage    LatestMessage  `json:"latest_message"`
	Events           []Event        `json:"events"`
	ActiveLoop       ActiveLoop     `json:"active_loop"`
	LatestActionName string         `json:"latest_action_name,omitempty"`
}

type LatestMessage struct {
	Intent   Intent         `json:"intent"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Intent struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence,omitempty"`
}

type ActiveLoop struct {
	Name string `json:"name,omitempty"`
}

type Domain struct {
	Forms map[string]Form `json:"forms"`
}

type Form struct {
	RequiredSlots []string `json:"required_slots"`
}

// RequiredSlots lists the slots the domain declares for form, in declaration order.
func (d Domain) RequiredSlots(form string) []string {
	return d.Forms[form].RequiredSlots
}

func (t Tracker) Slot(name string) any {
	return t.Slots[name]
}

// SlotString returns the slot as a string; unset slots read as "".
func (t Tracker) SlotString(name string) string {
	v := t.Slots[name]
	if v == nil {
		return ""
	}

	return cast.ToString(v)
}

// SlotBool reads a boolean slot; ok is false when the slot is unset or not a boolean.
func (t Tracker) SlotBool(name string) (value bool, ok bool) {
	v := t.Slots[name]
	if v == nil {
		return false, false
	}

	value, err := cast.ToBoolE(v)
	if err != nil {
		return false, false
	}

	return value, true
}

func (t Tracker) Intent() string {
	return t.LatestMessage.Intent.Name
}

// LatestUserMetadata returns the metadata of the most recent user event.
func (t Tracker) LatestUserMetadata() map[string]any {
	for i := len(t.Events) - 1; i >= 0; i-- {
		e := t.Events[i]
		if e.Kind() != eventUser {
			continue
		}

		metadata, err := cast.ToStringMapE(e["metadata"])
		if err == nil && metadata != nil {
			return metadata
		}

		break
	}

	return t.LatestMessage.Metadata
}

// Credential is the bearer value forwarded to the case API.
func (t Tracker) Credential() string {
	return cast.ToString(t.LatestUserMetadata()["authorization"])
}

type SlotValue struct {
	Name  string
	Value any
}

// SlotsToValidate returns the slot candidates appended after the last non-slot event.
// A later candidate for the same slot replaces the earlier one in place.
func (t Tracker) SlotsToValidate() []SlotValue {
	start := len(t.Events)
	for start > 0 && t.Events[start-1].Kind() == eventSlot {
		start--
	}

	var result []SlotValue
	for _, e := range t.Events[start:] {
		result = Merge(result, SlotValue{Name: cast.ToString(e["name"]), Value: e["value"]})
	}

	return result
}

// Merge sets slot s in values, keeping the position of an existing entry.
func Merge(values []SlotValue, s SlotValue) []SlotValue {
	for i := range values {
		if values[i].Name == s.Name {
			values[i].Value = s.Value
			return values
		}
	}

	return append(values, s)
}
