package bizerror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"atelier/domain/state"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("record not found")
	ErrInvalidPassword = errors.New("invalid password")

	ErrDrawingHasFile = errors.New("drawing already has an uploaded file")
	ErrStateUnknown   = errors.New("unknown state")
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message, Data: nil}
}

// ErrInvalidTransition reports a lifecycle command which is not acceptable
// for the drawing's current state, together with the commands that are.
type ErrInvalidTransition struct {
	State     state.State
	Command   state.Command
	Available []state.Command
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("command %s is not acceptable for state %s", e.Command, e.State)
}

func (e *ErrInvalidTransition) Respond() *BizErrorDetail {
	message := e.Error()
	if len(e.Available) > 0 {
		names := make([]string, 0, len(e.Available))
		for _, c := range e.Available {
			names = append(names, string(c))
		}
		message = message + ", acceptable commands: " + strings.Join(names, ", ")
	}
	return &BizErrorDetail{Status: http.StatusConflict, Code: "drawing.invalid_transition", Message: message,
		Data: map[string]interface{}{"state": e.State, "command": e.Command, "availableCommands": e.Available}}
}

// ErrValidation reports a transition payload rejected before any state
// mutation was attempted.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

func (e *ErrValidation) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.validation_failed", Message: e.Message, Data: nil}
}
