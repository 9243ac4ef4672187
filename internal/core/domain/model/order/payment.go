package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Payment is the method the customer settles the order with.
type Payment string

const (
	// PaymentCash means cash handed to the courier on delivery.
	PaymentCash Payment = "cash"

	// PaymentCard means a card-to-courier transfer on delivery.
	PaymentCard Payment = "card"
)

// Validate checks the payment method against the known set.
func (p Payment) Validate() error {
	switch p {
	case PaymentCash, PaymentCard:
		return nil
	default:
		return errs.NewValueIsInvalidError(fmt.Sprintf("payment method %q", string(p)))
	}
}

func (p Payment) String() string { return string(p) }
