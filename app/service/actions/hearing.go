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

const slotViewUpcomingHearingDates = "view_upcoming_hearing_dates"

func hearingDate(_ context.Context, c mycase.CaseSummary, _ string) ([]chat.Message, error) {
	if c.NextHearingDate == "" {
		return []chat.Message{
			chat.Utter(chat.UtterNoHearingDate),
			chat.Utter(chat.UtterDirectionsForHearingDate),
		}, nil
	}

	return []chat.Message{
		chat.Utter(chat.UtterNextHearingDate).WithCustom(render.HearingCarousel([]mycase.CaseSummary{c})),
		chat.Utter(chat.UtterDirectionsForHearingDate),
	}, nil
}

// fetchNextHearingDate shows the cases heard soonest. When other dates exist the resolution
// context is cleared so the hearing form can offer them.
func (s *Service) fetchNextHearingDate(ctx context.Context, req tracker.Request) (tracker.Response, error) {
	done := []tracker.Event{tracker.SlotSet(slotViewUpcomingHearingDates, false)}

	cases, err := s.api.ListCases(ctx, req.Tracker.Credential())
	if err != nil {
		slog.Warn("Action failed", "action", "action_fetch_next_hearing_date", "error", err)

		return tracker.Response{
			Events:    done,
			Responses: []chat.Message{chat.Utter(chat.UtterProblem)},
		}, nil
	}

	nearest, _ := resolution.SplitByNearestHearing(cases)
	if len(nearest) == 0 {
		return tracker.Response{
			Events: done,
			Responses: []chat.Message{
				chat.Utter(chat.UtterNoHearingDate),
				chat.Utter(chat.UtterDirectionsForHearingDate),
			},
		}, nil
	}

	messages := []chat.Message{
		chat.Utter(chat.UtterNextHearingDate).WithCustom(render.HearingCarousel(nearest)),
		chat.Utter(chat.UtterDirectionsForHearingDate),
	}

	if resolution.DistinctHearingDates(cases) == 1 {
		return tracker.Response{Events: done, Responses: messages}, nil
	}

	return tracker.Response{
		Events:    tracker.SlotEvents(resolution.Context{}.Slots()),
		Responses: messages,
	}, nil
}

func (s *Service) fetchAllCases(ctx context.Context, req tracker.Request) (tracker.Response, error) {
	cases, err := s.api.ListCases(ctx, req.Tracker.Credential())
	if err != nil {
		slog.Warn("Action failed", "action", "action_fetch_all_cases", "error", err)
		return tracker.Response{Responses: []chat.Message{chat.Utter(chat.UtterProblem)}}, nil
	}

	if len(cases) == 0 {
		return tracker.Response{Responses: []chat.Message{chat.Utter(chat.UtterNoCases)}}, nil
	}

	intro := chat.UtterCases
	if len(cases) == 1 {
		intro = chat.UtterCase
	}

	return tracker.Response{
		Responses: []chat.Message{
			chat.Utter(intro),
			{Custom: render.CaseCarousel(cases)},
		},
	}, nil
}
