package resolution

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"casebot/app/client/mycase"
	"casebot/app/service/chat"
	"casebot/app/service/render"

	"github.com/samber/do"
)

type Outcome int

const (
	// Unresolved means nothing was looked up; the context only recorded an answer.
	Unresolved Outcome = iota
	Resolved
	Ambiguous
	NotFound
	NoCases
	// Skipped means the user declined and no case is needed.
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	case NotFound:
		return "not_found"
	case NoCases:
		return "no_cases"
	case Skipped:
		return "skipped"
	default:
		return "unresolved"
	}
}

// Step is the result of one resolution turn.
type Step struct {
	Outcome    Outcome
	Context    Context
	Messages   []chat.Message
	Case       *mycase.CaseSummary
	Candidates []mycase.CaseSummary
}

// Lookup is the part of the case API the engine needs.
type Lookup interface {
	ListCases(ctx context.Context, credential string) ([]mycase.CaseSummary, error)
	FindByCaseNumber(ctx context.Context, credential string, q mycase.Query) ([]mycase.CaseSummary, error)
}

type Engine struct {
	lookup Lookup
}

func New(di *do.Injector) (*Engine, error) {
	client := do.MustInvoke[*mycase.Client](di)

	return NewEngine(client), nil
}

func NewEngine(lookup Lookup) *Engine {
	return &Engine{
		lookup: lookup,
	}
}

// Resolve turns a raw case number plus the hints in rc into one case, a selection prompt
// or a not-found prompt. An empty raw input lists every case of the credential.
// Lookup errors are returned unchanged.
func (e *Engine) Resolve(ctx context.Context, raw string, rc Context, credential string) (Step, error) {
	raw = strings.TrimSpace(raw)

	cases, err := e.find(ctx, credential, queryFor(raw, rc))
	if err != nil {
		return Step{}, err
	}

	slog.Debug("Case lookup finished",
		"case_number", raw,
		"court_type", rc.CourtType,
		"location_code", rc.LocationCode,
		"matches", len(cases),
	)

	switch {
	case len(cases) == 1:
		return resolved(rc, cases[0]), nil

	case len(cases) > 1:
		prompt := chat.UtterSameCaseNumber
		if raw == "" {
			prompt = chat.UtterSelectCase
		}

		return ambiguous(rc, prompt, cases), nil

	case raw == "":
		return Step{
			Outcome:  NoCases,
			Context:  rc.withoutHints(),
			Messages: []chat.Message{chat.Utter(chat.UtterNoCases)},
		}, nil

	default:
		next := rc.withCaseNumber(NotFoundSentinel)
		next.ReenterCaseNumber = Unknown
		next.KnowCaseNumber = Yes

		return Step{
			Outcome: NotFound,
			Context: next,
			Messages: []chat.Message{
				chat.Utter(chat.UtterCaseNumberMismatch),
				chat.Utter(chat.UtterDirectionsForCaseNumber),
			},
		}, nil
	}
}

// ResolveUnknownNumber handles the answer to "do you know your case number?".
// Only a No answer triggers a lookup of every case on the account.
func (e *Engine) ResolveUnknownNumber(ctx context.Context, know TriState, rc Context, credential string) (Step, error) {
	rc.KnowCaseNumber = know

	if know != No {
		return Step{Outcome: Unresolved, Context: rc}, nil
	}

	cases, err := e.lookup.ListCases(ctx, credential)
	if err != nil {
		return Step{}, fmt.Errorf("list cases: %w", err)
	}

	switch len(cases) {
	case 0:
		next := rc.withCaseNumber(NotFoundSentinel)
		next.ReenterCaseNumber = No

		return Step{
			Outcome:  NoCases,
			Context:  next,
			Messages: []chat.Message{chat.Utter(chat.UtterNoCases)},
		}, nil
	case 1:
		return resolved(rc, cases[0]), nil
	default:
		return ambiguous(rc, chat.UtterSelectCase, cases), nil
	}
}

// Locate re-fetches the case a completed form points at. Terminal actions use the first match.
func (e *Engine) Locate(ctx context.Context, rc Context, credential string) (mycase.CaseSummary, error) {
	cases, err := e.find(ctx, credential, queryFor(rc.CaseNumber, rc))
	if err != nil {
		return mycase.CaseSummary{}, err
	}

	if len(cases) == 0 {
		return mycase.CaseSummary{}, fmt.Errorf("locate case %q: %w", rc.CaseNumber, mycase.ErrNoCase)
	}

	return cases[0], nil
}

// queryFor applies the dispatch policy: every non-empty hint narrows the number query,
// and an empty number ignores the hints and lists all cases.
func queryFor(raw string, rc Context) mycase.Query {
	if raw == "" {
		return mycase.Query{}
	}

	return mycase.Query{
		CaseNumber:   raw,
		CourtType:    rc.CourtType,
		LocationCode: rc.LocationCode,
	}
}

func (e *Engine) find(ctx context.Context, credential string, q mycase.Query) ([]mycase.CaseSummary, error) {
	if q.CaseNumber == "" {
		cases, err := e.lookup.ListCases(ctx, credential)
		if err != nil {
			return nil, fmt.Errorf("list cases: %w", err)
		}

		return cases, nil
	}

	cases, err := e.lookup.FindByCaseNumber(ctx, credential, q)
	if err != nil {
		return nil, fmt.Errorf("find case %q: %w", q.CaseNumber, err)
	}

	return cases, nil
}

func resolved(rc Context, c mycase.CaseSummary) Step {
	next := rc
	next.CaseNumber = c.CaseNumber
	next.CourtType = c.CourtType
	next.LocationCode = c.LocationCode
	next.KnowCaseNumber = Yes

	return Step{
		Outcome: Resolved,
		Context: next,
		Case:    &c,
	}
}

// ambiguous keeps case_number open so the tapped button re-enters the validator.
func ambiguous(rc Context, prompt string, cases []mycase.CaseSummary) Step {
	next := rc.withCaseNumber("")
	next.KnowCaseNumber = No

	return Step{
		Outcome:    Ambiguous,
		Context:    next,
		Messages:   []chat.Message{chat.Utter(prompt).WithButtons(render.CaseButtons(cases))},
		Candidates: cases,
	}
}
