package actions

import (
	"context"

	"casebot/app/service/chat"
	"casebot/app/service/resolution"
	"casebot/app/service/tracker"

	"github.com/spf13/cast"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	slotUserName               = "user_name"
	slotFeedback               = "feedback"
	slotSessionStartedMetadata = "session_started_metadata"
)

func (s *Service) registerConversation() {
	s.registry.Register("action_session_start", s.sessionStart)
	s.registry.Register("action_welcome_user", welcomeUser)
	s.registry.Register("action_greet_user", greetUser)
	s.registry.Register("action_ask_case_number", askCaseNumber)
	s.registry.Register("action_save_feedback", s.saveFeedback)
}

// sessionStart records the analytics the client attached to the session.
func (s *Service) sessionStart(_ context.Context, req tracker.Request) (tracker.Response, error) {
	metadata := cast.ToStringMap(req.Tracker.Slot(slotSessionStartedMetadata))
	if len(metadata) == 0 {
		metadata = req.Tracker.LatestUserMetadata()
	}

	if analytics, err := cast.ToStringMapE(metadata["analytics"]); err == nil && len(analytics) > 0 {
		s.recorder.Analytics(analytics)
	}

	return tracker.Response{
		Events: []tracker.Event{
			tracker.SessionStarted(),
			tracker.ActionExecuted("action_listen"),
		},
	}, nil
}

func welcomeUser(_ context.Context, req tracker.Request) (tracker.Response, error) {
	name := userName(req.Tracker)

	return tracker.Response{
		Events: []tracker.Event{tracker.SlotSet(slotUserName, name)},
		Responses: []chat.Message{
			chat.Utter(chat.UtterWelcomeUser).With("user_name", name),
			chat.Utter(chat.UtterPopularQuestions),
		},
	}, nil
}

func greetUser(_ context.Context, req tracker.Request) (tracker.Response, error) {
	if req.Tracker.SlotString(slotUserName) != "" {
		return tracker.Response{Responses: []chat.Message{chat.Utter(chat.UtterGreetUser)}}, nil
	}

	name := userName(req.Tracker)

	return tracker.Response{
		Events:    []tracker.Event{tracker.SlotSet(slotUserName, name)},
		Responses: []chat.Message{chat.Utter(chat.UtterGreetUser).With("user_name", name)},
	}, nil
}

// askCaseNumber prompts for the number only when the user said they know it;
// otherwise selection buttons are already on screen.
func askCaseNumber(_ context.Context, req tracker.Request) (tracker.Response, error) {
	if resolution.ParseTriState(req.Tracker.Slot(resolution.SlotKnowCaseNumber)) != resolution.Yes {
		return tracker.Response{}, nil
	}

	return tracker.Response{Responses: []chat.Message{chat.Utter(chat.UtterEnterCaseNumber)}}, nil
}

func (s *Service) saveFeedback(_ context.Context, req tracker.Request) (tracker.Response, error) {
	metadata := req.Tracker.LatestUserMetadata()

	s.recorder.Feedback(map[string]any{
		"user_id":   cast.ToString(metadata["user_id"]),
		"user_name": cast.ToString(metadata["user_name"]),
		"feedback":  req.Tracker.Slot(slotFeedback),
	})

	return tracker.Response{Events: []tracker.Event{tracker.SlotSet(slotFeedback, nil)}}, nil
}

func userName(t tracker.Tracker) string {
	name := cast.ToString(t.LatestUserMetadata()["user_name"])

	return cases.Title(language.English).String(name)
}
