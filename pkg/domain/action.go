package domain

// ActionRequest represents a side-effect that the engine requests the host to perform.
type ActionRequest struct {
	Type    string // e.g., "RENDER_CONTENT", "REQUEST_INPUT"
	Payload any    // The data needed to perform the action
}

// Standard Action Types
const (
	// ActionRenderContent requests the host to display content to the user.
	// Payload: string (the content)
	ActionRenderContent = "RENDER_CONTENT"

	// ActionRequestInput requests the host to collect input from the user.
	// Payload: InputRequest
	ActionRequestInput = "REQUEST_INPUT"

	// ActionSystemMessage represents a status line from the engine (notices, outcomes).
	// Payload: string (the message)
	ActionSystemMessage = "SYSTEM_MESSAGE"
)

// InputType defines the kind of input requested.
type InputType string

const (
	InputText    InputType = "text"
	InputConfirm InputType = "confirm"
	InputChoice  InputType = "choice"
)

// InputRequest describes the constraints and type of input needed.
type InputRequest struct {
	Type    InputType `json:"type"`
	Prompt  string    `json:"prompt,omitempty"`
	Options []string  `json:"options,omitempty"`
}

// Content builds a render action.
func Content(text string) ActionRequest {
	return ActionRequest{Type: ActionRenderContent, Payload: text}
}

// Notice builds a system message action.
func Notice(msg string) ActionRequest {
	return ActionRequest{Type: ActionSystemMessage, Payload: msg}
}

// AskFor builds an input request action.
func AskFor(req InputRequest) ActionRequest {
	return ActionRequest{Type: ActionRequestInput, Payload: req}
}
