package domain

import "strings"

// StateID identifies a state of the joke workflow.
type StateID string

const (
	StateMenu           StateID = "menu"
	StateGenerate       StateID = "generate"
	StateCritique       StateID = "critique"
	StateCommit         StateID = "commit"
	StateChangeCategory StateID = "change_category"
	StateChangeLanguage StateID = "change_language"
	StateResetHistory   StateID = "reset_history"
	StateBrowse         StateID = "browse"
	StateExit           StateID = "exit"
)

// AwaitsInput reports whether the state halts waiting for user input (hard step).
// Every other state runs immediately when the host navigates with empty input.
func (s StateID) AwaitsInput() bool {
	switch s {
	case StateMenu, StateChangeCategory, StateChangeLanguage:
		return true
	}
	return false
}

// Choice is the option picked from the main menu.
type Choice string

const (
	ChoiceNext           Choice = "n"
	ChoiceChangeCategory Choice = "c"
	ChoiceChangeLanguage Choice = "l"
	ChoiceResetHistory   Choice = "r"
	ChoiceBrowse         Choice = "b"
	ChoiceQuit           Choice = "q"
)

// Choices lists the menu options in display order.
var Choices = []Choice{
	ChoiceNext,
	ChoiceChangeCategory,
	ChoiceChangeLanguage,
	ChoiceResetHistory,
	ChoiceBrowse,
	ChoiceQuit,
}

// ParseChoice maps raw menu input to a Choice.
// Anything unrecognized is treated as ChoiceQuit.
func ParseChoice(input string) Choice {
	c := Choice(strings.ToLower(strings.TrimSpace(input)))
	for _, known := range Choices {
		if c == known {
			return c
		}
	}
	return ChoiceQuit
}

// Target returns the state a menu choice dispatches to.
func (c Choice) Target() StateID {
	switch c {
	case ChoiceNext:
		return StateGenerate
	case ChoiceChangeCategory:
		return StateChangeCategory
	case ChoiceChangeLanguage:
		return StateChangeLanguage
	case ChoiceResetHistory:
		return StateResetHistory
	case ChoiceBrowse:
		return StateBrowse
	default:
		return StateExit
	}
}

// Verdict is the decision of a critic about a draft joke.
type Verdict string

const (
	VerdictApprove Verdict = "approve"
	VerdictReject  Verdict = "reject"
	VerdictInvalid Verdict = "invalid"
)

// ParseVerdict maps a yes/no answer to a Verdict.
func ParseVerdict(input string) Verdict {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes", "y":
		return VerdictApprove
	case "no", "n":
		return VerdictReject
	default:
		return VerdictInvalid
	}
}
