package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	t.Run("nil error has no code", func(t *testing.T) {
		assert.Equal(t, Code(""), CodeOf(nil))
	})

	t.Run("uncoded error is internal", func(t *testing.T) {
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})

	t.Run("wrapped coded error keeps its code", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", New(CodeNotFound, "missing"))
		assert.Equal(t, CodeNotFound, CodeOf(err))
		assert.True(t, HasCode(err, CodeNotFound))
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("underlying error remains reachable", func(t *testing.T) {
		base := errors.New("disk full")
		err := Wrap(base, CodeInternal, "failed to save")
		assert.ErrorIs(t, err, base)
		assert.Equal(t, "failed to save: disk full", err.Error())
	})
}
