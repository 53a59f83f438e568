package surface

import (
	"errors"
	"fmt"

	"github.com/san-kum/cosmos/internal/render"
)

// ContextCreationError reports that Mount could not obtain a drawing
// context. It matches render.ErrContextCreation with errors.Is.
type ContextCreationError struct {
	Cause error
}

func (e *ContextCreationError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("surface: %v", render.ErrContextCreation)
	}
	return fmt.Sprintf("surface: %v: %v", render.ErrContextCreation, e.Cause)
}

func (e *ContextCreationError) Unwrap() error { return e.Cause }

func (e *ContextCreationError) Is(target error) bool {
	return target == render.ErrContextCreation
}

// ErrNotMounted is returned by operations that need a live surface.
var ErrNotMounted = errors.New("surface: not mounted")
