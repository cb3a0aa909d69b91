package actions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"casebot/app/client/mycase"
	"casebot/app/config"
	"casebot/app/service/chat"
	"casebot/app/service/forms"
	"casebot/app/service/recorder"
	"casebot/app/service/resolution"
	"casebot/app/service/tracker"

	"github.com/samber/do"
)

// CaseAPI is the part of the MyCase client the actions use.
type CaseAPI interface {
	resolution.Lookup
	CaseHistory(ctx context.Context, credential string, q mycase.Query) (*mycase.CaseHistory, error)
	Charges(ctx context.Context, credential string, q mycase.Query) ([]mycase.Charge, error)
	Parties(ctx context.Context, credential string, q mycase.Query) ([]mycase.Party, error)
	PaymentInfo(ctx context.Context, credential string, q mycase.Query) (*mycase.PaymentInfo, error)
	DocumentUploadURLs(ctx context.Context, credential string, q mycase.Query) (*mycase.DocumentUploadURLs, error)
}

type Recorder interface {
	Analytics(document map[string]any)
	Feedback(document map[string]any)
}

type Service struct {
	webURL   string
	api      CaseAPI
	engine   *resolution.Engine
	recorder Recorder
	registry *Registry
	now      func() time.Time
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		cfg.MyCase.WebURL,
		do.MustInvoke[*mycase.Client](di),
		do.MustInvoke[*resolution.Engine](di),
		do.MustInvoke[*recorder.Service](di),
		do.MustInvoke[*forms.Service](di).Forms(),
	), nil
}

func NewService(webURL string, api CaseAPI, engine *resolution.Engine, rec Recorder, formList []*forms.Form) *Service {
	s := &Service{
		webURL:   webURL,
		api:      api,
		engine:   engine,
		recorder: rec,
		registry: NewRegistry(),
		now:      time.Now,
	}

	s.registerConversation()
	s.registerCaseActions()
	s.registerLinks()

	for _, f := range formList {
		s.registry.Register(f.Name, f.Run)
	}

	return s
}

func (s *Service) Names() []string {
	return s.registry.Names()
}

// Run dispatches req to the action named by req.NextAction.
func (s *Service) Run(ctx context.Context, req tracker.Request) (tracker.Response, error) {
	handler, ok := s.registry.Lookup(req.NextAction)
	if !ok {
		return tracker.Response{}, fmt.Errorf("%w: %s", ErrUnknownAction, req.NextAction)
	}

	start := time.Now()

	resp, err := handler(ctx, req)
	if err != nil {
		return tracker.Response{}, fmt.Errorf("run %s: %w", req.NextAction, err)
	}

	if resp.Events == nil {
		resp.Events = []tracker.Event{}
	}
	if resp.Responses == nil {
		resp.Responses = []chat.Message{}
	}

	slog.Debug("Action finished",
		"action", req.NextAction,
		"sender_id", req.SenderID,
		"events", len(resp.Events),
		"responses", len(resp.Responses),
		"duration", time.Since(start),
	)

	return resp, nil
}
