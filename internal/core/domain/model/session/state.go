package session

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// State names a position in a role's conversation state machine.
// States are explicit enumerations; free text never becomes a state.
type State string

// Shared initial state. Every role starts and restarts here.
const StateMainMenu State = "MAIN_MENU"

// Customer flow states.
const (
	StateAwaitingPhone        State = "AWAITING_PHONE"
	StateAwaitingLocation     State = "AWAITING_LOCATION"
	StateAwaitingOrderDetails State = "AWAITING_ORDER_DETAILS"
	StateAwaitingPaymentType  State = "AWAITING_PAYMENT_TYPE"
	StateConfirmation         State = "CONFIRMATION"
	StateEditing              State = "EDITING"
)

// Courier flow states. Courier state is largely a view filter; the
// authoritative state lives on the Order.
const (
	StateViewingOrders State = "VIEWING_ORDERS"
	StateOrderAccepted State = "ORDER_ACCEPTED"
)

// Admin flow states.
const (
	StateManagingCouriers  State = "MANAGING_COURIERS"
	StateViewingStatistics State = "VIEWING_STATISTICS"
	StateSettings          State = "SETTINGS"
	StateAwaitingCourierID State = "AWAITING_COURIER_ID"
)

func statesByRole() map[kernel.Role]map[State]struct{} {
	return map[kernel.Role]map[State]struct{}{
		kernel.RoleCustomer: {
			StateMainMenu: {}, StateAwaitingPhone: {}, StateAwaitingLocation: {},
			StateAwaitingOrderDetails: {}, StateAwaitingPaymentType: {},
			StateConfirmation: {}, StateEditing: {},
		},
		kernel.RoleCourier: {
			StateMainMenu: {}, StateViewingOrders: {}, StateOrderAccepted: {},
		},
		kernel.RoleAdmin: {
			StateMainMenu: {}, StateViewingOrders: {}, StateManagingCouriers: {},
			StateViewingStatistics: {}, StateSettings: {}, StateAwaitingCourierID: {},
		},
	}
}

// InitialState returns the state a role's session starts in.
func InitialState(kernel.Role) State {
	return StateMainMenu
}

// ValidateFor checks that the state belongs to the given role's machine.
func (s State) ValidateFor(role kernel.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}
	if _, ok := statesByRole()[role][s]; !ok {
		return errs.NewValueIsInvalidError(
			fmt.Sprintf("state %q for role %q", string(s), role.String()))
	}
	return nil
}

func (s State) String() string { return string(s) }
