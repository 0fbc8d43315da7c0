package sentinel

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	for _, base := range []error{ErrNotFound, ErrCorrupt, ErrUnavailable} {
		wrapped := fmt.Errorf("load verification_statuses: %w", base)
		assert.True(t, errors.Is(wrapped, base), "expected %v to be reachable", base)
	}
	assert.False(t, errors.Is(ErrNotFound, ErrUnavailable))
}
