package cascade

import (
	"fmt"

	"github.com/aretw0/cascade/internal/runtime"
	"github.com/aretw0/cascade/pkg/domain"
)

// CycleError is returned by Validate and carries the offending entity path.
type CycleError = runtime.CycleError

func unknownEntity(name string) error {
	return fmt.Errorf("%w: %q", domain.ErrUnknownEntity, name)
}
