package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"casebot/app/client/mycase"
)

const paymentPath = "/ePayments/selectPayment.jsp"

type PaymentForm struct {
	TemplateType string   `json:"template_type"`
	Name         string   `json:"name"`
	Title        string   `json:"title"`
	IsForm       bool     `json:"isForm"`
	Text         string   `json:"text"`
	Form         HTMLForm `json:"form"`
}

type HTMLForm struct {
	Name      string      `json:"name"`
	ID        string      `json:"id"`
	Action    string      `json:"action"`
	Method    string      `json:"method"`
	Target    string      `json:"target"`
	LinkTitle string      `json:"link_title"`
	Elements  []FormInput `json:"elements"`
}

type FormInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AmountDue reports whether the payment record carries a non-zero amount.
func AmountDue(info *mycase.PaymentInfo) bool {
	if info == nil || strings.TrimSpace(info.Amount) == "" {
		return false
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(info.Amount), 64)
	if err != nil {
		return false
	}

	return amount != 0
}

// Payment renders the e-payment form posting to the MyCase web application.
func Payment(webURL, caseNumber string, info mycase.PaymentInfo, now time.Time) Attachment {
	return Attachment{
		Attachment: AttachmentBody{
			Type: "template",
			Payload: PaymentForm{
				TemplateType: "generic",
				Name:         "payment_form",
				Title:        "Payment",
				IsForm:       true,
				Text: fmt.Sprintf(
					"You owe $%s. To pay the amount owed for your case %s, please click the button below",
					info.Amount, caseNumber,
				),
				Form: HTMLForm{
					Name:      "chatbotEpaymentDetail",
					ID:        fmt.Sprintf("chatbotEpaymentDetailId_%d", now.Unix()),
					Action:    strings.TrimRight(webURL, "/") + paymentPath,
					Method:    "post",
					Target:    "_blank",
					LinkTitle: "Make a payment",
					Elements: []FormInput{
						{Name: "epay_IntCase", Value: info.IntCaseNumber},
						{Name: "epay_CourtType", Value: info.CourtType},
						{Name: "epay_WebUser", Value: info.WebUser},
						{Name: "epay_Amount", Value: info.Amount},
						{Name: "epay_Party", Value: info.Party},
					},
				},
			},
		},
	}
}
