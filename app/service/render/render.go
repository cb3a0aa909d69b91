package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"casebot/app/client/mycase"
	"casebot/app/service/chat"

	"github.com/elliotchance/pie/v2"
)

// SelectionIntent is the intent a case button triggers when tapped.
const SelectionIntent = "/provide_case_details"

const (
	emojiHash     = "#️⃣ "
	emojiFlag     = "🚩 "
	emojiCalendar = "📅 "
)

// Selection is the slot payload encoded in a case button.
type Selection struct {
	CaseNumber   string           `json:"case_number"`
	CourtType    mycase.CourtType `json:"court_type"`
	LocationCode string           `json:"location_code"`
}

func (s Selection) Query() mycase.Query {
	return mycase.Query{
		CaseNumber:   s.CaseNumber,
		CourtType:    s.CourtType,
		LocationCode: s.LocationCode,
	}
}

// CaseButtons builds one selection button per case, keeping the given order.
func CaseButtons(cases []mycase.CaseSummary) []chat.Button {
	return pie.Map(cases, func(c mycase.CaseSummary) chat.Button {
		return chat.Button{
			Title:       fmt.Sprintf("🔖 %s - %s", c.CaseNumber, c.CaseTitle),
			Payload:     Payload(c),
			ContentType: "text",
		}
	})
}

// Payload encodes the case identity so that tapping the button resolves it in one step.
func Payload(c mycase.CaseSummary) string {
	data, _ := json.Marshal(Selection{
		CaseNumber:   c.CaseNumber,
		CourtType:    c.CourtType,
		LocationCode: c.LocationCode,
	})

	return SelectionIntent + string(data)
}

func ParsePayload(payload string) (Selection, error) {
	var result Selection

	body, ok := strings.CutPrefix(payload, SelectionIntent)
	if !ok {
		return result, fmt.Errorf("unexpected payload intent: %q", payload)
	}

	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return result, fmt.Errorf("decode payload: %w", err)
	}

	return result, nil
}

type Attachment struct {
	Attachment AttachmentBody `json:"attachment"`
}

type AttachmentBody struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type Carousel struct {
	TemplateType string              `json:"template_type"`
	Name         string              `json:"name"`
	Title        string              `json:"title"`
	Elements     []map[string]string `json:"elements"`
}

func carousel(title string, elements []map[string]string) Attachment {
	if elements == nil {
		elements = []map[string]string{}
	}

	return Attachment{
		Attachment: AttachmentBody{
			Type: "template",
			Payload: Carousel{
				TemplateType: "generic",
				Name:         "custom_carousel",
				Title:        title,
				Elements:     elements,
			},
		},
	}
}

func CaseCarousel(cases []mycase.CaseSummary) Attachment {
	return carousel("Case Details", pie.Map(cases, func(c mycase.CaseSummary) map[string]string {
		return map[string]string{
			"case number": c.CaseNumber,
			"case title":  c.CaseTitle,
			"location":    c.Place(),
		}
	}))
}

func HearingCarousel(cases []mycase.CaseSummary) Attachment {
	return carousel("Case Hearing Details", pie.Map(cases, func(c mycase.CaseSummary) map[string]string {
		return map[string]string{
			"case number":      c.CaseNumber,
			"case title":       c.CaseTitle,
			"hearing date":     c.NextHearingDate,
			"hearing location": c.Place(),
		}
	}))
}

func ChargeCarousel(charges []mycase.Charge) Attachment {
	return carousel("Case Offense Details", pie.Map(charges, func(c mycase.Charge) map[string]string {
		return map[string]string{
			"sequence":       emojiHash + c.Sequence,
			"offense":        c.Offense,
			"severity":       emojiFlag + c.Severity,
			"violation date": emojiCalendar + c.ViolationDate,
		}
	}))
}

func PartyCarousel(parties []mycase.Party) Attachment {
	return carousel("Case Party Details", pie.Map(parties, func(p mycase.Party) map[string]string {
		representedBy := p.RepresentedBy
		if representedBy == "" {
			representedBy = "-"
		}

		return map[string]string{
			"type":           p.Type,
			"party":          p.Party,
			"represented by": representedBy,
		}
	}))
}
