package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrder() *Order {
	return &Order{
		CustomerID:    7,
		PaymentMethod: PaymentCashOnDelivery,
		Status:        StatusPending,
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(120)},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.NewFromInt(60)},
		},
		Subtotal: decimal.NewFromInt(300),
		Discount: decimal.NewFromInt(30),
		Total:    decimal.NewFromInt(270),
	}
}

func TestOrderValidate(t *testing.T) {
	require.NoError(t, validOrder().Validate())

	o := validOrder()
	o.PaymentMethod = "paypal"
	assert.ErrorIs(t, o.Validate(), ErrInvalidPaymentMethod)

	o = validOrder()
	o.Items = nil
	assert.ErrorIs(t, o.Validate(), ErrNoItems)

	o = validOrder()
	o.Items[0].Quantity = 0
	assert.ErrorIs(t, o.Validate(), ErrInvalidQuantity)

	o = validOrder()
	o.Total = decimal.NewFromInt(-1)
	assert.ErrorIs(t, o.Validate(), ErrNegativeTotal)

	// total must stay consistent with items minus discount
	o = validOrder()
	o.Total = decimal.NewFromInt(299)
	assert.ErrorIs(t, o.Validate(), ErrTotalMismatch)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPending, InitialStatus(PaymentBankTransfer, false))
	assert.Equal(t, StatusProcessing, InitialStatus(PaymentBankTransfer, true))
	assert.Equal(t, StatusProcessing, InitialStatus(PaymentCreditCard, false))
	assert.Equal(t, StatusPending, InitialStatus(PaymentCashOnDelivery, false))
}

func TestTransition(t *testing.T) {
	o := validOrder()
	require.NoError(t, o.Transition(StatusProcessing))
	require.NoError(t, o.Transition(StatusShipped))
	require.NoError(t, o.Transition(StatusCompleted))
	assert.ErrorIs(t, o.Transition(StatusCancelled), ErrInvalidTransition)

	o = validOrder()
	require.NoError(t, o.Transition(StatusCancelled))
	assert.ErrorIs(t, o.Transition(StatusShipped), ErrInvalidTransition)

	o = validOrder()
	assert.ErrorIs(t, o.Transition(StatusCompleted), ErrInvalidTransition)
	assert.ErrorIs(t, o.Transition("UNKNOWN"), ErrInvalidStatus)
}

func TestAttachSlip(t *testing.T) {
	o := validOrder()
	o.PaymentMethod = PaymentBankTransfer
	require.NoError(t, o.AttachSlip("/uploads/slips/123.jpg"))
	assert.Equal(t, StatusProcessing, o.Status)
	assert.Equal(t, "/uploads/slips/123.jpg", o.SlipPath)

	// already processing: path updates, status stays
	require.NoError(t, o.AttachSlip("/uploads/slips/456.jpg"))
	assert.Equal(t, StatusProcessing, o.Status)

	assert.Error(t, o.AttachSlip(""))
}
