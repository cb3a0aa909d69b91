package mycase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// HearingDateLayout parses next_hearing_date values such as "03/01/2024 9:00 AM".
// Month, day and hour may come with or without a leading zero.
const HearingDateLayout = "1/2/2006 3:04 PM"

type CourtType string

const (
	CourtJustice  CourtType = "justice"
	CourtDistrict CourtType = "district"
)

// Code is the single-letter form the API expects.
func (c CourtType) Code() string {
	switch c {
	case CourtJustice:
		return "J"
	case CourtDistrict:
		return "D"
	default:
		return ""
	}
}

// ParseCourtType accepts both the letter codes and the full names.
func ParseCourtType(s string) (CourtType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "j", string(CourtJustice):
		return CourtJustice, nil
	case "d", string(CourtDistrict):
		return CourtDistrict, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown court type %q", s)
	}
}

// UnmarshalJSON reads court codes from the API. Any code other than a justice code
// denotes a district court, so one odd record never fails a whole listing.
func (c *CourtType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseCourtType(raw)
	if err != nil {
		slog.Warn("Unknown court type, treating as district", "court_type", raw)
		parsed = CourtDistrict
	}

	*c = parsed
	return nil
}

type Security string

const (
	SecurityNormal   Security = "Normal"
	SecuritySealed   Security = "Sealed"
	SecurityExpunged Security = "Expunged"
)

// Restricted reports whether case details must be withheld from the user.
func (s Security) Restricted() bool {
	return s == SecuritySealed || s == SecurityExpunged
}

type Location struct {
	City string `json:"city"`
}

type CaseSummary struct {
	CaseNumber      string    `json:"case_number"`
	CourtType       CourtType `json:"court_type"`
	LocationCode    string    `json:"location_code"`
	CaseTitle       string    `json:"case_title"`
	Security        Security  `json:"case_security"`
	NextHearingDate string    `json:"next_hearing_date,omitempty"`
	CourtName       string    `json:"court_name"`
	Location        Location  `json:"location"`
}

// HearingTime parses NextHearingDate. ok is false when the case has no date or it is malformed.
func (c CaseSummary) HearingTime() (t time.Time, ok bool) {
	if c.NextHearingDate == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(HearingDateLayout, strings.TrimSpace(c.NextHearingDate))
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// Place is the "court, city" label shown next to a case.
func (c CaseSummary) Place() string {
	return fmt.Sprintf("%s, %s", c.CourtName, c.Location.City)
}

// Query selects cases by number; empty hints are not sent.
type Query struct {
	CaseNumber   string
	CourtType    CourtType
	LocationCode string
}

type CaseHistory struct {
	URL string `json:"url"`
}

type Charge struct {
	Sequence      string `json:"sequence"`
	Offense       string `json:"offense"`
	Severity      string `json:"severity"`
	SeverityCode  string `json:"severity_code"`
	ViolationDate string `json:"violation_date"`
	Description   string `json:"descr"`
}

type Party struct {
	Type          string `json:"type"`
	Party         string `json:"party"`
	RepresentedBy string `json:"represented_by"`
}

type PaymentInfo struct {
	IntCaseNumber string `json:"int_case_number"`
	CourtType     string `json:"court_type"`
	WebUser       string `json:"epay_web_user"`
	Amount        string `json:"epay_amount"`
	Party         string `json:"epay_party"`
}

type DocumentUploadURLs struct {
	FillOutFormURL     string `json:"fill_out_form_url"`
	GuidedInterviewURL string `json:"guided_interview_url"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}
