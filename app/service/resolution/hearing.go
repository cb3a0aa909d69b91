package resolution

import (
	"context"
	"fmt"
	"time"

	"casebot/app/client/mycase"
	"casebot/app/service/chat"
	"casebot/app/service/render"

	"github.com/elliotchance/pie/v2"
)

// NearestHearingDate returns the earliest hearing time among cases.
// Dates that do not parse are ignored. On a tie the first case in list order wins.
func NearestHearingDate(cases []mycase.CaseSummary) (nearest mycase.CaseSummary, at time.Time, ok bool) {
	for _, c := range cases {
		t, dated := c.HearingTime()
		if !dated {
			continue
		}

		if !ok || t.Before(at) {
			nearest, at, ok = c, t, true
		}
	}

	return nearest, at, ok
}

// SplitByNearestHearing partitions the dated cases into those heard at the nearest time
// and the rest. Undated cases appear in neither list.
func SplitByNearestHearing(cases []mycase.CaseSummary) (nearest, others []mycase.CaseSummary) {
	_, at, ok := NearestHearingDate(cases)
	if !ok {
		return nil, nil
	}

	for _, c := range cases {
		t, dated := c.HearingTime()
		if !dated {
			continue
		}

		if t.Equal(at) {
			nearest = append(nearest, c)
		} else {
			others = append(others, c)
		}
	}

	return nearest, others
}

// DistinctHearingDates counts the different hearing times among cases.
func DistinctHearingDates(cases []mycase.CaseSummary) int {
	times := pie.FilterNot(pie.Map(cases, func(c mycase.CaseSummary) int64 {
		t, ok := c.HearingTime()
		if !ok {
			return 0
		}

		return t.Unix()
	}), func(v int64) bool {
		return v == 0
	})

	return len(pie.Unique(times))
}

// OtherHearingDates answers "do you want to see your other hearing dates?".
// Yes offers every dated case not heard at the nearest time; No marks the number as declined.
func (e *Engine) OtherHearingDates(ctx context.Context, view TriState, rc Context, credential string) (Step, error) {
	switch view {
	case No:
		return Step{
			Outcome: Skipped,
			Context: rc.withCaseNumber(DeclinedSentinel),
		}, nil

	case Yes:
		cases, err := e.lookup.ListCases(ctx, credential)
		if err != nil {
			return Step{}, fmt.Errorf("list cases: %w", err)
		}

		_, others := SplitByNearestHearing(cases)

		if len(others) == 0 {
			return Step{
				Outcome:  NoCases,
				Context:  rc.withCaseNumber(DeclinedSentinel),
				Messages: []chat.Message{chat.Utter(chat.UtterNoHearingDate)},
			}, nil
		}

		next := rc.withCaseNumber("")
		next.KnowCaseNumber = No

		return Step{
			Outcome: Ambiguous,
			Context: next,
			Messages: []chat.Message{
				chat.Utter(chat.UtterUpcomingHearingInformation).WithButtons(render.CaseButtons(others)),
			},
			Candidates: others,
		}, nil

	default:
		return Step{Outcome: Unresolved, Context: rc}, nil
	}
}
