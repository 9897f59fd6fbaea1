package analysis

import "errors"

// User-facing failure messages, shown verbatim.
const (
	SustainabilityFailedMessage = "Failed to get sustainability analysis. Please check your API key and try again."
	LocationFailedMessage       = "Failed to get location analysis. Please try again."
	ChatFailedMessage           = "Failed to get a response. Please try again."
)

// Domain errors for the analysis package.
var (
	// ErrRegionRequired is returned by AnalyzeLocation for an empty or unknown region.
	ErrRegionRequired = errors.New("analysis: location region is required")

	// ErrPromptRequired is returned by Ask for a blank question.
	ErrPromptRequired = errors.New("analysis: prompt is required")

	// ErrAnalysisFailed matches every sustainability analysis failure.
	ErrAnalysisFailed = errors.New("analysis: sustainability analysis failed")

	// ErrLocationFailed matches every location analysis failure.
	ErrLocationFailed = errors.New("analysis: location analysis failed")

	// ErrChatFailed matches every chat failure.
	ErrChatFailed = errors.New("analysis: chat failed")

	// ErrMalformedResponse is the cause when the model's output does not fit the schema.
	ErrMalformedResponse = errors.New("analysis: malformed model response")
)

// Failure is returned for any transport, status or decoding problem. Its
// message is the fixed user-facing text; the kind sentinel and the cause
// are both reachable with errors.Is.
type Failure struct {
	kind    error
	message string
	cause   error
}

func (f *Failure) Error() string { return f.message }

// Unwrap exposes the kind sentinel and the underlying cause.
func (f *Failure) Unwrap() []error { return []error{f.kind, f.cause} }

// Cause returns the underlying error.
func (f *Failure) Cause() error { return f.cause }

func sustainabilityFailure(cause error) error {
	return &Failure{kind: ErrAnalysisFailed, message: SustainabilityFailedMessage, cause: cause}
}

func locationFailure(cause error) error {
	return &Failure{kind: ErrLocationFailed, message: LocationFailedMessage, cause: cause}
}

func chatFailure(cause error) error {
	return &Failure{kind: ErrChatFailed, message: ChatFailedMessage, cause: cause}
}
