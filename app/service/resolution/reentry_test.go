package resolution

import (
	"testing"

	"casebot/app/client/mycase"

	"github.com/stretchr/testify/assert"
)

func TestExtractReentry(t *testing.T) {
	assert.Equal(t, Yes, ExtractReentry("affirm"))
	assert.Equal(t, No, ExtractReentry("deny"))
	assert.Equal(t, Unknown, ExtractReentry("ask_hearing_date"))
	assert.Equal(t, Unknown, ExtractReentry(""))
}

func TestReentry(t *testing.T) {
	missed := Context{CaseNumber: NotFoundSentinel, KnowCaseNumber: Yes}

	state, next := Reentry(Yes, missed)
	assert.Equal(t, Retrying, state)
	assert.Equal(t, Context{KnowCaseNumber: Yes, ReenterCaseNumber: Yes}, next)

	state, next = Reentry(No, missed)
	assert.Equal(t, Declined, state)
	assert.Equal(t, NotFoundSentinel, next.CaseNumber)
	assert.Equal(t, No, next.ReenterCaseNumber)

	state, next = Reentry(Unknown, missed)
	assert.Equal(t, AwaitingChoice, state)
	assert.Equal(t, missed, next)
}

func TestContext_SlotsRoundTrip(t *testing.T) {
	rc := Context{CaseNumber: "12345", CourtType: mycase.CourtJustice, LocationCode: "L1", KnowCaseNumber: Yes}

	slots := rc.Slots()
	assert.Equal(t, "12345", slots[0].Value)
	assert.Equal(t, "justice", slots[1].Value)
	assert.Equal(t, "L1", slots[2].Value)
	assert.Equal(t, true, slots[3].Value)
	assert.Nil(t, slots[4].Value)

	for _, s := range (Context{}).Slots() {
		assert.Nil(t, s.Value, s.Name)
	}
}

func TestParseTriState(t *testing.T) {
	assert.Equal(t, Unknown, ParseTriState(nil))
	assert.Equal(t, Yes, ParseTriState(true))
	assert.Equal(t, No, ParseTriState(false))
	assert.Equal(t, Unknown, ParseTriState(map[string]any{}))
}
