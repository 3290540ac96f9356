package runtime

// User-facing text emitted by the engine.
const (
	MenuText = "[n] Next [c] Category [l] Change language [r] Reset jokes [b] Browse saved jokes [q] Quit"

	MsgInvalidVerdict  = "Invalid input. Defaulting to 'no'."
	MsgDuplicateFound  = "Duplicate joke found: %s"
	MsgTooSimilar      = "This joke is too similar to an existing one. Skipping save."
	MsgApproved        = "Approved Joke: %s"
	MsgSaved           = "Joke saved (ID: %s)"
	MsgHistoryReset    = "Joke history has been reset"
	MsgNoJokes         = "No jokes saved yet."
	MsgSavedHeader     = "--- Saved Jokes ---"
	MsgExhausted       = "No joke was approved after %d attempts."
	MsgGoodbye         = "Thanks for trying! Maybe come back when you're in a funnier mood"
	MsgInvalidSelect   = "Invalid selection: %s. Please try again."
	MsgCategoryChanged = "Category set to %s"
	MsgLanguageChanged = "Language set to %s"
)
