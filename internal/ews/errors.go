package ews

import "fmt"

// ResponseError is an EWS response message with ResponseClass="Error".
type ResponseError struct {
	Operation string
	Code      string
	Message   string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("EWS %s failed: %s", e.Operation, e.Code)
	}
	return fmt.Sprintf("EWS %s failed: %s (%s)", e.Operation, e.Message, e.Code)
}

// FaultError is a SOAP fault returned instead of a response message.
type FaultError struct {
	Operation string
	Code      string
	Message   string
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("EWS %s fault %s: %s", e.Operation, e.Code, e.Message)
}
