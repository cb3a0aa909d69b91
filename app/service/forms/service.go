package forms

import (
	"context"

	"casebot/app/service/render"
	"casebot/app/service/resolution"
	"casebot/app/service/tracker"

	"github.com/samber/do"
	"github.com/spf13/cast"
)

const (
	SlotFeedback                 = "feedback"
	SlotViewUpcomingHearingDates = "view_upcoming_hearing_dates"

	denyPayload = "/deny"
)

type Service struct {
	engine *resolution.Engine
}

func New(di *do.Injector) (*Service, error) {
	engine := do.MustInvoke[*resolution.Engine](di)

	return NewService(engine), nil
}

func NewService(engine *resolution.Engine) *Service {
	return &Service{
		engine: engine,
	}
}

// Forms lists every form validation action.
func (s *Service) Forms() []*Form {
	return []*Form{s.CaseForm(), s.UpcomingHearingDateForm(), FeedbackForm()}
}

func (s *Service) CaseForm() *Form {
	return &Form{
		Name:    "validate_case_form",
		Form:    "case_form",
		Leading: reentryWhenMissed,
		Extractors: map[string]Extractor{
			resolution.SlotReenterCaseNumber: extractReentry,
		},
		Validators: map[string]Validator{
			resolution.SlotKnowCaseNumber:    s.validateKnowCaseNumber,
			resolution.SlotCaseNumber:        s.validateCaseNumber,
			resolution.SlotReenterCaseNumber: validateReenterCaseNumber,
		},
	}
}

func (s *Service) UpcomingHearingDateForm() *Form {
	return &Form{
		Name:    "validate_upcoming_hearing_date_form",
		Form:    "upcoming_hearing_date_form",
		Leading: reentryWhenMissed,
		Extractors: map[string]Extractor{
			resolution.SlotReenterCaseNumber: extractReentry,
		},
		Validators: map[string]Validator{
			resolution.SlotKnowCaseNumber:    s.validateKnowCaseNumber,
			resolution.SlotCaseNumber:        s.validateCaseNumber,
			resolution.SlotReenterCaseNumber: validateReenterCaseNumber,
			SlotViewUpcomingHearingDates:     s.validateViewUpcomingHearingDates,
		},
	}
}

func FeedbackForm() *Form {
	return &Form{
		Name:     "validate_feedback_form",
		Form:     "feedback_form",
		Trailing: []string{SlotFeedback},
		Extractors: map[string]Extractor{
			SlotFeedback: extractFeedback,
		},
	}
}

// reentryWhenMissed asks whether to retry only after a number was not found.
func reentryWhenMissed(t tracker.Tracker) []string {
	if t.SlotString(resolution.SlotCaseNumber) == resolution.NotFoundSentinel {
		return []string{resolution.SlotReenterCaseNumber}
	}

	return nil
}

func extractReentry(t tracker.Tracker) any {
	return resolution.ExtractReentry(t.Intent()).Value()
}

func extractFeedback(t tracker.Tracker) any {
	if t.LatestMessage.Text == denyPayload {
		return nil
	}

	return t.LatestMessage.Text
}

func (s *Service) validateKnowCaseNumber(ctx context.Context, value any, t tracker.Tracker) (Update, error) {
	step, err := s.engine.ResolveUnknownNumber(ctx, resolution.ParseTriState(value), resolution.FromTracker(t), t.Credential())
	if err != nil {
		return Update{}, err
	}

	return Update{Slots: step.Context.Slots(), Messages: step.Messages}, nil
}

func (s *Service) validateCaseNumber(ctx context.Context, value any, t tracker.Tracker) (Update, error) {
	raw := ""
	if value != nil {
		raw = cast.ToString(value)
	}

	rc := resolution.FromTracker(t)

	// A tapped button may arrive as raw text when the slot is filled from the message.
	if sel, err := render.ParsePayload(raw); err == nil {
		q := sel.Query()
		raw = q.CaseNumber
		rc.CourtType, rc.LocationCode = q.CourtType, q.LocationCode
	}

	step, err := s.engine.Resolve(ctx, raw, rc, t.Credential())
	if err != nil {
		return Update{}, err
	}

	return Update{Slots: step.Context.Slots(), Messages: step.Messages}, nil
}

func validateReenterCaseNumber(_ context.Context, value any, t tracker.Tracker) (Update, error) {
	_, next := resolution.Reentry(resolution.ParseTriState(value), resolution.FromTracker(t))

	return Update{Slots: next.Slots()}, nil
}

func (s *Service) validateViewUpcomingHearingDates(ctx context.Context, value any, t tracker.Tracker) (Update, error) {
	view := resolution.ParseTriState(value)

	step, err := s.engine.OtherHearingDates(ctx, view, resolution.FromTracker(t), t.Credential())
	if err != nil {
		return Update{}, err
	}

	slots := append(step.Context.Slots(), tracker.SlotValue{Name: SlotViewUpcomingHearingDates, Value: view.Value()})

	return Update{Slots: slots, Messages: step.Messages}, nil
}
