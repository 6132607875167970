package utils

import (
	"fmt"
)

// Wraps a sentinel error with formatted details, keeping errors.Is working
// against the sentinel
func MakeError(err error, detailsBody string, args ...any) error {
	return fmt.Errorf("%w: "+detailsBody, append([]any{err}, args...)...)
}
