package codec

import "fmt"

// FormatError describes malformed recording text. Record 0 is the metadata
// record; samples start at 1.
type FormatError struct {
	Record int
	Field  string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := fmt.Sprintf("malformed recording: record %d", e.Record)
	if e.Field != "" {
		msg += " " + e.Field
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
