package gateway

import "fmt"

// GatewayError reports a failed call to the extraction API: a transport
// failure, a non-success status, or an open circuit.
type GatewayError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GatewayError) Unwrap() error { return e.Err }

// ProtocolError reports a response that could not be decoded or lacks the data section.
type ProtocolError struct {
	GatewayError
}

// Unwrap exposes the embedded GatewayError so errors.As matches both types.
func (e *ProtocolError) Unwrap() error { return &e.GatewayError }

func newProtocolError(statusCode int, message string, err error) *ProtocolError {
	return &ProtocolError{GatewayError{StatusCode: statusCode, Message: message, Err: err}}
}
