package api

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// StatusCode returns the HTTP status carried by err, or 0 when err did not
// come from a non-success response.
func StatusCode(err error) int {
	var e *goerrors.Error
	if errors.As(err, &e) && e.TextCode == TextCodeStatus {
		return e.Code
	}
	return 0
}

// ServerMessage returns the message the backend attached to a failed response.
func ServerMessage(err error) (string, bool) {
	var e *goerrors.Error
	if !errors.As(err, &e) {
		return "", false
	}
	msg, ok := e.Metadata["server_message"].(string)
	return msg, ok && msg != ""
}

// Message turns err into the single line shown next to a form: a
// validation summary, the server's own message, or fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if goerrors.IsCategory(err, goerrors.CategoryValidation) {
		var e *goerrors.Error
		if errors.As(err, &e) {
			if len(e.ValidationErrors) > 0 {
				return e.Message + ": " + e.ValidationErrors.Error()
			}
			return e.Message
		}
	}
	if msg, ok := ServerMessage(err); ok {
		return msg
	}
	return fallback
}
