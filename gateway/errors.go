package gateway

import "github.com/bytedance/sonic"

// Error is a failed gateway call. Message is the human-readable text shown to
// the user: the server's own message when it sent one, the caller's fallback
// otherwise.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// errorMessage extracts the server-provided message from an error body,
// checking the nested error object first, then the flat message field.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Err     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := sonic.ConfigStd.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	if payload.Err.Message != "" {
		return payload.Err.Message
	}
	if payload.Message != "" {
		return payload.Message
	}
	return fallback
}
