package paykit

import "fmt"

// StateError reports a request used outside its lifecycle: mutating it after
// it has been sent, or reading the response before it has been sent. It is
// always fatal to the current call; the caller has to restructure its flow.
type StateError struct {
	msg string
}

func (e *StateError) Error() string {
	return e.msg
}

var (
	ErrRequestSent = &StateError{msg: "request cannot be modified after it has been sent"}
	ErrNoResponse  = &StateError{msg: "you must send the request before accessing the response"}
)

// ValidationError names the first required parameter found empty or unset.
type ValidationError struct {
	Param string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("the %s parameter is required", e.Param)
}
