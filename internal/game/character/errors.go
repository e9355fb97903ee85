package character

import (
	"errors"
	"fmt"
)

// ErrValidation marks a refused operation. The State returned alongside it
// is the unchanged input.
var ErrValidation = errors.New("validation failed")

func refuse(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
