package tracker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const requestBody = `{
  "next_action": "validate_case_form",
  "sender_id": "s-1",
  "tracker": {
    "sender_id": "s-1",
    "slots": {"case_number": "12345", "know_case_number": true, "court_type": null},
    "latest_message": {"intent": {"name": "affirm", "confidence": 0.98}, "text": "yes"},
    "events": [
      {"event": "user", "text": "hi", "metadata": {"authorization": "Bearer old"}},
      {"event": "action", "name": "action_listen"},
      {"event": "user", "text": "12345", "metadata": {"authorization": "Bearer abc", "user_id": "u1"}},
      {"event": "slot", "name": "case_number", "value": "1234"},
      {"event": "slot", "name": "know_case_number", "value": true},
      {"event": "slot", "name": "case_number", "value": "12345"}
    ],
    "active_loop": {"name": "case_form"}
  },
  "domain": {"forms": {"case_form": {"required_slots": ["know_case_number", "case_number"]}}}
}`

func decode(t *testing.T) Request {
	t.Helper()

	var req Request
	require.NoError(t, json.Unmarshal([]byte(requestBody), &req))

	return req
}

func TestTracker_Accessors(t *testing.T) {
	req := decode(t)
	tr := req.Tracker

	assert.Equal(t, "12345", tr.SlotString("case_number"))
	assert.Equal(t, "", tr.SlotString("court_type"))

	know, ok := tr.SlotBool("know_case_number")
	assert.True(t, ok)
	assert.True(t, know)

	_, ok = tr.SlotBool("reenter_case_number")
	assert.False(t, ok)

	assert.Equal(t, "affirm", tr.Intent())
	assert.Equal(t, "Bearer abc", tr.Credential())
	assert.Equal(t, "case_form", tr.ActiveLoop.Name)
	assert.Equal(t, []string{"know_case_number", "case_number"}, req.Domain.RequiredSlots("case_form"))
}

func TestTracker_SlotsToValidate(t *testing.T) {
	tr := decode(t).Tracker

	assert.Equal(t, []SlotValue{
		{Name: "case_number", Value: "12345"},
		{Name: "know_case_number", Value: true},
	}, tr.SlotsToValidate())
}

func TestTracker_MetadataFallsBackToLatestMessage(t *testing.T) {
	tr := Tracker{LatestMessage: LatestMessage{Metadata: map[string]any{"authorization": "Bearer x"}}}
	assert.Equal(t, "Bearer x", tr.Credential())
}

func TestEvents_Wire(t *testing.T) {
	data, err := json.Marshal([]Event{SlotSet("case_number", nil), DeactivateLoop()})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"event":"slot","timestamp":null,"name":"case_number","value":null},
		{"event":"active_loop","timestamp":null,"name":null}
	]`, string(data))
}
