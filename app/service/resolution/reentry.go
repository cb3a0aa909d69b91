package resolution

const (
	intentAffirm = "affirm"
	intentDeny   = "deny"
)

type ReentryState int

const (
	AwaitingChoice ReentryState = iota
	Retrying
	Declined
)

func (s ReentryState) String() string {
	switch s {
	case Retrying:
		return "retrying"
	case Declined:
		return "declined"
	default:
		return "awaiting_choice"
	}
}

// ExtractReentry maps the latest intent to the re-entry answer. Unrelated intents
// leave the answer Unknown so the question is asked again unchanged.
func ExtractReentry(intent string) TriState {
	switch intent {
	case intentAffirm:
		return Yes
	case intentDeny:
		return No
	default:
		return Unknown
	}
}

// Reentry applies the user's choice after a not-found lookup.
func Reentry(choice TriState, rc Context) (ReentryState, Context) {
	rc.ReenterCaseNumber = choice

	switch choice {
	case Yes:
		next := rc.withCaseNumber("")
		next.KnowCaseNumber = Yes
		return Retrying, next
	case No:
		return Declined, rc
	default:
		return AwaitingChoice, rc
	}
}
