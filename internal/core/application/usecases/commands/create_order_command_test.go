package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	cmd, err := commands.NewCreateOrderCommand(
		kernel.ActorID(100), testPhone(t), testLocation(t), "2 lavash", order.PaymentCash,
	)
	require.NoError(t, err)
	assert.Equal(t, kernel.ActorID(100), cmd.RequesterID())
	assert.Equal(t, "2 lavash", cmd.Details())
	assert.Equal(t, order.PaymentCash, cmd.Payment())
}

func TestNewCreateOrderCommand_InvalidRequester(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.ActorID(0), testPhone(t), testLocation(t), "2 lavash", order.PaymentCash,
	)
	require.Error(t, err)
}

func TestNewCreateOrderCommand_EmptyDetails(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.ActorID(100), testPhone(t), testLocation(t), "", order.PaymentCash,
	)
	require.Error(t, err)
}

func TestNewCreateOrderCommand_InvalidPayment(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(
		kernel.ActorID(100), testPhone(t), testLocation(t), "2 lavash", order.Payment("crypto"),
	)
	require.Error(t, err)
}
