package oerror

import "fmt"

type SandboxError struct {
	Err string
}

func New(format string, args ...interface{}) *SandboxError {
	return &SandboxError{Err: fmt.Sprintf(format, args...)}
}

func (e *SandboxError) Error() string {
	return e.Err
}
