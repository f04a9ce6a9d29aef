package dispatch

// ClearSentinel is the content of the clear result. The UI must wipe its
// history instead of printing it.
const ClearSentinel = "CLEAR_TERMINAL"

// Kind classifies a result for rendering.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Failure names the cause of an error result.
type Failure string

const (
	FailureNone            Failure = ""
	FailureDataUnavailable Failure = "data_unavailable"
	FailureCommandNotFound Failure = "command_not_found"
	FailureInternal        Failure = "internal"
)

// Result is what Execute hands back to the UI.
type Result struct {
	Content string  `json:"content"`
	Kind    Kind    `json:"kind"`
	Failure Failure `json:"failure,omitempty"`
}

// IsClear reports whether the UI should clear its history.
func (r Result) IsClear() bool {
	return r.Content == ClearSentinel
}

const dataUnavailableMessage = "Error: Unable to load CV data. Please check your connection."

func successResult(content string) Result {
	return Result{Content: content, Kind: KindSuccess}
}

func infoResult(content string) Result {
	return Result{Content: content, Kind: KindInfo}
}

func notFound(token string) Result {
	return Result{
		Content: "Command not found: " + token + ". Type 'help' for available commands.",
		Kind:    KindError,
		Failure: FailureCommandNotFound,
	}
}

func dataUnavailable() Result {
	return Result{
		Content: dataUnavailableMessage,
		Kind:    KindError,
		Failure: FailureDataUnavailable,
	}
}
