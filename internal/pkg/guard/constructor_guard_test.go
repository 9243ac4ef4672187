package guard_test

import (
	"errors"
	"testing"

	"dispatch/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard(t *testing.T) {
	t.Run("constructed guard validates", func(t *testing.T) {
		g := guard.NewConstructorGuard()
		require.NoError(t, g.Validate(errors.New("should not surface")))
	})

	t.Run("zero value returns the given error", func(t *testing.T) {
		var g guard.ConstructorGuard
		sentinel := errors.New("must use constructor")
		assert.Equal(t, sentinel, g.Validate(sentinel))
	})

	t.Run("zero value with nil error falls back to default", func(t *testing.T) {
		var g guard.ConstructorGuard
		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
	})
}
