package controller

import (
	"errors"
	"fmt"
)

var ErrSuperseded = errors.New("import was superseded by a newer request")

//the start request failed or the server did not give us a task; Message is what was shown to the user
type StartFailure struct {
	Message string
	Err     error
}

func (e *StartFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not start import: %s (%s)", e.Message, e.Err)
	}
	return fmt.Sprintf("could not start import: %s", e.Message)
}

func (e *StartFailure) Unwrap() error {
	return e.Err
}

//a status check failed. These are never shown to the user
type PollFailure struct {
	TaskId string
	Err    error
}

func (e *PollFailure) Error() string {
	return fmt.Sprintf("could not check status of import %s: %s", e.TaskId, e.Err)
}

func (e *PollFailure) Unwrap() error {
	return e.Err
}
