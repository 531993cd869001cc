package assembler

import (
	"errors"
	"fmt"
)

// ErrRootRequired is returned by New for an empty root directory.
var ErrRootRequired = errors.New("assembler: root directory is required to find the functions")

// EndpointError reports the endpoint module that aborted the endpoint pass.
type EndpointError struct {
	File  string
	Group string
	Err   error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("assembler: failed to add the endpoint defined in %s to the %q group: %v", e.File, e.Group, e.Err)
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}
