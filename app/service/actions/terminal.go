package actions

import (
	"context"
	"log/slog"

	"casebot/app/client/mycase"
	"casebot/app/service/chat"
	"casebot/app/service/render"
	"casebot/app/service/resolution"
	"casebot/app/service/tracker"
)

const documentFilingInstructionsLink = "https://www.utcourts.gov/howto/filing/"

// terminalFunc produces the messages of an action that completes a case form.
type terminalFunc func(ctx context.Context, rc resolution.Context, credential string) ([]chat.Message, error)

// detailFunc renders one located, unrestricted case.
type detailFunc func(ctx context.Context, c mycase.CaseSummary, credential string) ([]chat.Message, error)

// terminal wraps fn so that the resolution context, plus extra slots, is reset on every path.
// Errors are logged and answered with a generic problem message.
func terminal(name string, fn terminalFunc, extra ...string) Handler {
	return func(ctx context.Context, req tracker.Request) (resp tracker.Response, err error) {
		slog.Debug("Execution started", "action", name)

		defer func() {
			resp.Events = append(resp.Events, reset(extra)...)
			slog.Debug("Execution ended", "action", name)
		}()

		messages, err := fn(ctx, resolution.FromTracker(req.Tracker), req.Tracker.Credential())
		if err != nil {
			slog.Warn("Action failed",
				"action", name,
				"status", mycase.StatusCode(err),
				"error", err,
			)

			return tracker.Response{Responses: []chat.Message{chat.Utter(chat.UtterProblem)}}, nil
		}

		return tracker.Response{Responses: messages}, nil
	}
}

func reset(extra []string) []tracker.Event {
	events := tracker.SlotEvents(resolution.Context{}.Slots())
	for _, name := range extra {
		events = append(events, tracker.SlotSet(name, nil))
	}

	return events
}

// caseDetail locates the case of a completed form and hands it to fn.
// Sentinel numbers skip the lookup entirely; sealed and expunged cases are not rendered.
func (s *Service) caseDetail(fn detailFunc) terminalFunc {
	return func(ctx context.Context, rc resolution.Context, credential string) ([]chat.Message, error) {
		if rc.IsSentinel() {
			return nil, nil
		}

		c, err := s.engine.Locate(ctx, rc, credential)
		if err != nil {
			return nil, err
		}

		if c.Security.Restricted() {
			slog.Info("Restricted case, details withheld", "security", c.Security)
			return []chat.Message{chat.Utter(chat.UtterNotApplicable)}, nil
		}

		return fn(ctx, c, credential)
	}
}

func queryOf(c mycase.CaseSummary) mycase.Query {
	return mycase.Query{
		CaseNumber:   c.CaseNumber,
		CourtType:    c.CourtType,
		LocationCode: c.LocationCode,
	}
}

func (s *Service) registerCaseActions() {
	s.registry.Register("action_fetch_case_information",
		terminal("action_fetch_case_information", s.caseDetail(s.caseInformation)))
	s.registry.Register("action_fetch_charges",
		terminal("action_fetch_charges", s.caseDetail(s.charges)))
	s.registry.Register("action_fetch_parties",
		terminal("action_fetch_parties", s.caseDetail(s.parties)))
	s.registry.Register("action_fetch_payment",
		terminal("action_fetch_payment", s.caseDetail(s.payment)))
	s.registry.Register("action_fetch_file_upload_information",
		terminal("action_fetch_file_upload_information", s.caseDetail(s.fileUpload)))
	s.registry.Register("action_fetch_hearing_date",
		terminal("action_fetch_hearing_date", s.caseDetail(hearingDate), slotViewUpcomingHearingDates))
	s.registry.Register("action_fetch_next_hearing_date", s.fetchNextHearingDate)
	s.registry.Register("action_fetch_all_cases", s.fetchAllCases)
}

func (s *Service) caseInformation(ctx context.Context, c mycase.CaseSummary, credential string) ([]chat.Message, error) {
	history, err := s.api.CaseHistory(ctx, credential, queryOf(c))
	if err != nil {
		return nil, err
	}

	if history == nil || history.URL == "" {
		return []chat.Message{chat.Utter(chat.UtterAuthenticationIssue)}, nil
	}

	return []chat.Message{
		chat.Utter(chat.UtterCaseInformation).
			With("case_number", c.CaseNumber).
			With("file_link", history.URL),
		chat.Utter(chat.UtterNoValidCaseInformation),
		chat.Utter(chat.UtterDirectionsForCaseInformation),
	}, nil
}

func (s *Service) charges(ctx context.Context, c mycase.CaseSummary, credential string) ([]chat.Message, error) {
	charges, err := s.api.Charges(ctx, credential, queryOf(c))
	if err != nil {
		return nil, err
	}

	var messages []chat.Message
	if len(charges) > 0 {
		messages = append(messages,
			chat.Utter(chat.UtterCaseCharges).With("case_number", c.CaseNumber),
			chat.Message{Custom: render.ChargeCarousel(charges)},
			chat.Utter(chat.UtterNoValidCaseCharges),
		)
	} else {
		messages = append(messages, chat.Utter(chat.UtterNoCaseCharges))
	}

	return append(messages, chat.Utter(chat.UtterDirectionsForCaseCharges)), nil
}

func (s *Service) parties(ctx context.Context, c mycase.CaseSummary, credential string) ([]chat.Message, error) {
	parties, err := s.api.Parties(ctx, credential, queryOf(c))
	if err != nil {
		return nil, err
	}

	if len(parties) == 0 {
		return []chat.Message{chat.Utter(chat.UtterNoCaseParties)}, nil
	}

	return []chat.Message{
		chat.Utter(chat.UtterCaseParties).With("case_number", c.CaseNumber),
		{Custom: render.PartyCarousel(parties)},
		chat.Utter(chat.UtterNoValidCaseParties),
		chat.Utter(chat.UtterFindCaseParties),
	}, nil
}

func (s *Service) payment(ctx context.Context, c mycase.CaseSummary, credential string) ([]chat.Message, error) {
	info, err := s.api.PaymentInfo(ctx, credential, queryOf(c))
	if err != nil {
		return nil, err
	}

	if !render.AmountDue(info) {
		return []chat.Message{
			chat.Utter(chat.UtterNoCasePayment),
			chat.Utter(chat.UtterFindCasePayment),
		}, nil
	}

	return []chat.Message{
		{Custom: render.Payment(s.webURL, c.CaseNumber, *info, s.now())},
		chat.Utter(chat.UtterFindCasePayment),
	}, nil
}

func (s *Service) fileUpload(ctx context.Context, c mycase.CaseSummary, credential string) ([]chat.Message, error) {
	urls, err := s.api.DocumentUploadURLs(ctx, credential, queryOf(c))
	if err != nil {
		return nil, err
	}

	if urls == nil || urls.FillOutFormURL == "" || urls.GuidedInterviewURL == "" {
		return []chat.Message{
			chat.Utter(chat.UtterNoFileUploadInformation).
				With("document_filing_instructions_link", documentFilingInstructionsLink),
		}, nil
	}

	return []chat.Message{
		chat.Utter(chat.UtterFileUploadInformation).
			With("case_number", c.CaseNumber).
			With("fill_out_form_link", urls.FillOutFormURL).
			With("guided_interview_link", urls.GuidedInterviewURL),
	}, nil
}
