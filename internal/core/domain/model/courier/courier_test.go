package courier_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourier(t *testing.T) {
	t.Run("valid courier starts active", func(t *testing.T) {
		c, err := courier.NewCourier(7, "Bekzod", time.Now())
		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.True(t, c.IsActive())
		assert.Equal(t, "Bekzod", c.Name())
	})

	t.Run("validation failures", func(t *testing.T) {
		_, err := courier.NewCourier(0, "Bekzod", time.Now())
		require.Error(t, err)

		_, err = courier.NewCourier(7, "", time.Now())
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var c courier.Courier
		require.ErrorIs(t, c.Validate(), courier.ErrCourierIsNotConstructed)
	})
}

func TestCourierActivation(t *testing.T) {
	c, err := courier.NewCourier(7, "Bekzod", time.Now())
	require.NoError(t, err)

	c.Deactivate()
	assert.False(t, c.IsActive())

	c.Activate()
	assert.True(t, c.IsActive())
}

func TestRestoreCourier(t *testing.T) {
	registered := time.Now().Add(-24 * time.Hour)
	c, err := courier.RestoreCourier(7, "Bekzod", false, registered)
	require.NoError(t, err)
	assert.False(t, c.IsActive())
	assert.Equal(t, registered, c.RegisteredAt())
}
