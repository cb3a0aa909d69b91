package forms

import (
	"context"
	"log/slog"

	"casebot/app/service/chat"
	"casebot/app/service/resolution"
	"casebot/app/service/tracker"
)

const SlotRequested = "requested_slot"

// Update is what one slot validator contributes: new slot values and messages for the user.
type Update struct {
	Slots    []tracker.SlotValue
	Messages []chat.Message
}

// Validator checks one slot candidate.
type Validator func(ctx context.Context, value any, t tracker.Tracker) (Update, error)

// Extractor derives a slot value from the latest user message.
type Extractor func(t tracker.Tracker) any

// Form validates the slots of one framework form.
type Form struct {
	// Action name, validate_<form>
	Name string
	// Form name in the framework domain
	Form string
	// Leading returns slots required before the domain's own, given the current slots.
	Leading    func(t tracker.Tracker) []string
	Trailing   []string
	Extractors map[string]Extractor
	Validators map[string]Validator
}

func (f *Form) RequiredSlots(t tracker.Tracker, domain tracker.Domain) []string {
	var required []string
	if f.Leading != nil {
		required = append(required, f.Leading(t)...)
	}

	required = append(required, domain.RequiredSlots(f.Form)...)
	required = append(required, f.Trailing...)

	return required
}

// Run executes one validation round: extract, validate, then pick the next slot to request.
// A validator error aborts the round, resets the resolution context and deactivates the form.
func (f *Form) Run(ctx context.Context, req tracker.Request) (tracker.Response, error) {
	view := withSlots(req.Tracker, nil)

	var extracted []tracker.SlotValue
	requested := view.SlotString(SlotRequested)
	for _, slot := range f.RequiredSlots(view, req.Domain) {
		extract, ok := f.Extractors[slot]
		if !ok || requested != slot {
			continue
		}

		extracted = tracker.Merge(extracted, tracker.SlotValue{Name: slot, Value: extract(view)})
	}
	view = withSlots(view, extracted)

	candidates := view.SlotsToValidate()
	for _, s := range extracted {
		candidates = tracker.Merge(candidates, s)
	}

	var messages []chat.Message
	snapshot := append([]tracker.SlotValue(nil), candidates...)
	for _, s := range snapshot {
		validate, ok := f.Validators[s.Name]
		if !ok {
			continue
		}

		update, err := validate(ctx, s.Value, view)
		if err != nil {
			slog.Error("Slot validation failed",
				"form", f.Form,
				"slot", s.Name,
				"error", err,
			)

			return failed(), nil
		}

		for _, u := range update.Slots {
			candidates = tracker.Merge(candidates, u)
		}
		messages = append(messages, update.Messages...)
		view = withSlots(view, update.Slots)
	}

	var next any
	for _, slot := range f.RequiredSlots(view, req.Domain) {
		if view.Slot(slot) == nil {
			next = slot
			break
		}
	}

	slog.Debug("Form validated",
		"form", f.Form,
		"slots", len(candidates),
		"requested_slot", next,
	)

	events := tracker.SlotEvents(candidates)
	events = append(events, tracker.SlotSet(SlotRequested, next))

	return tracker.Response{
		Events:    events,
		Responses: messages,
	}, nil
}

func failed() tracker.Response {
	events := tracker.SlotEvents(resolution.Context{}.Slots())
	events = append(events, tracker.SlotSet(SlotRequested, nil), tracker.DeactivateLoop())

	return tracker.Response{
		Events:    events,
		Responses: []chat.Message{chat.Utter(chat.UtterProblem)},
	}
}

// withSlots returns a copy of t whose slot map has updates applied.
func withSlots(t tracker.Tracker, updates []tracker.SlotValue) tracker.Tracker {
	slots := make(map[string]any, len(t.Slots)+len(updates))
	for k, v := range t.Slots {
		slots[k] = v
	}
	for _, u := range updates {
		slots[u.Name] = u.Value
	}
	t.Slots = slots

	return t
}
