package resolution

import (
	"casebot/app/client/mycase"
	"casebot/app/service/tracker"

	"github.com/spf13/cast"
)

// Slots owned by the resolution context.
const (
	SlotCaseNumber        = "case_number"
	SlotCourtType         = "court_type"
	SlotLocationCode      = "location_code"
	SlotKnowCaseNumber    = "know_case_number"
	SlotReenterCaseNumber = "reenter_case_number"
)

// Sentinel case numbers.
const (
	NotFoundSentinel = "-1"
	DeclinedSentinel = "-2"
)

// TriState is a yes/no answer that may not have been given yet.
type TriState int

const (
	Unknown TriState = iota
	Yes
	No
)

func TriFromBool(b bool) TriState {
	if b {
		return Yes
	}

	return No
}

// ParseTriState reads a slot value; anything that is not a boolean is Unknown.
func ParseTriState(v any) TriState {
	if v == nil {
		return Unknown
	}

	b, err := cast.ToBoolE(v)
	if err != nil {
		return Unknown
	}

	return TriFromBool(b)
}

// Value is the slot encoding: true, false or nil.
func (t TriState) Value() any {
	switch t {
	case Yes:
		return true
	case No:
		return false
	default:
		return nil
	}
}

func (t TriState) String() string {
	switch t {
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "unknown"
	}
}

// Context is the per-conversation resolution state carried in form slots.
// It is a value: every operation returns an updated copy.
type Context struct {
	CaseNumber        string
	CourtType         mycase.CourtType
	LocationCode      string
	KnowCaseNumber    TriState
	ReenterCaseNumber TriState
}

func FromTracker(t tracker.Tracker) Context {
	courtType, _ := mycase.ParseCourtType(t.SlotString(SlotCourtType))

	return Context{
		CaseNumber:        t.SlotString(SlotCaseNumber),
		CourtType:         courtType,
		LocationCode:      t.SlotString(SlotLocationCode),
		KnowCaseNumber:    ParseTriState(t.Slot(SlotKnowCaseNumber)),
		ReenterCaseNumber: ParseTriState(t.Slot(SlotReenterCaseNumber)),
	}
}

// Slots encodes all five fields; empty strings become nil.
func (c Context) Slots() []tracker.SlotValue {
	return []tracker.SlotValue{
		{Name: SlotCaseNumber, Value: nullable(c.CaseNumber)},
		{Name: SlotCourtType, Value: nullable(string(c.CourtType))},
		{Name: SlotLocationCode, Value: nullable(c.LocationCode)},
		{Name: SlotKnowCaseNumber, Value: c.KnowCaseNumber.Value()},
		{Name: SlotReenterCaseNumber, Value: c.ReenterCaseNumber.Value()},
	}
}

// IsSentinel reports whether CaseNumber holds one of the out-of-band markers.
func (c Context) IsSentinel() bool {
	return c.CaseNumber == NotFoundSentinel || c.CaseNumber == DeclinedSentinel
}

func (c Context) Query() mycase.Query {
	return mycase.Query{
		CaseNumber:   c.CaseNumber,
		CourtType:    c.CourtType,
		LocationCode: c.LocationCode,
	}
}

func (c Context) withoutHints() Context {
	c.CourtType = ""
	c.LocationCode = ""
	return c
}

// withCaseNumber replaces the number and drops hints that belonged to the old one.
func (c Context) withCaseNumber(n string) Context {
	c.CaseNumber = n
	return c.withoutHints()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}

	return s
}
