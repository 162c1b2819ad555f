package document

import "fmt"

// MalformedDocumentError reports a cyclic, too deep or unexpectedly shaped value.
type MalformedDocumentError struct {
	Reason   string
	Location Location
	Cause    error
}

func (e *MalformedDocumentError) Error() string {
	msg := "malformed document: " + e.Reason
	if len(e.Location) > 0 {
		msg += fmt.Sprintf(" at %s", e.Location)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Cause
}
