package tracker

import "github.com/spf13/cast"

// Event is one tracker event in the framework's wire format.
type Event map[string]any

func (e Event) Kind() string {
	return cast.ToString(e["event"])
}

func SlotSet(name string, value any) Event {
	return Event{
		"event":     eventSlot,
		"timestamp": nil,
		"name":      name,
		"value":     value,
	}
}

func SessionStarted() Event {
	return Event{
		"event":     "session_started",
		"timestamp": nil,
	}
}

func ActionExecuted(name string) Event {
	return Event{
		"event":      "action",
		"timestamp":  nil,
		"name":       name,
		"policy":     nil,
		"confidence": nil,
	}
}

// DeactivateLoop stops the active form.
func DeactivateLoop() Event {
	return Event{
		"event":     "active_loop",
		"timestamp": nil,
		"name":      nil,
	}
}

func SlotEvents(values []SlotValue) []Event {
	events := make([]Event, 0, len(values))
	for _, v := range values {
		events = append(events, SlotSet(v.Name, v.Value))
	}

	return events
}
