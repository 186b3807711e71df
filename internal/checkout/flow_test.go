package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guestForm() Form {
	return Form{TierID: "t1", Quantity: 1, Phone: "254712345678", GuestName: "Jane", GuestEmail: "jane@example.com"}
}

func TestFlow_HappyPath(t *testing.T) {
	f := NewFlow(guestForm(), true)

	require.NoError(t, f.Submit())
	assert.Equal(t, StepProcessing, f.Step)
	require.NoError(t, f.Initiated("ticket-1"))
	require.NoError(t, f.Resolve(StepSuccess))
	assert.Equal(t, StepSuccess, f.Step)
	assert.Equal(t, "ticket-1", f.TicketID)

	assert.ErrorIs(t, f.Submit(), ErrInvalidTransition)
	assert.ErrorIs(t, f.Resolve(StepFailed), ErrInvalidTransition)
}

func TestFlow_ValidationKeepsInput(t *testing.T) {
	form := guestForm()
	form.Phone = "0712345678"
	f := NewFlow(form, true)

	err := f.Submit()
	require.Error(t, err)
	assert.Equal(t, StepInput, f.Step)
	assert.Equal(t, MsgInvalidPhone, f.Error)
}

func TestFlow_InitiationFailureReturnsToInput(t *testing.T) {
	f := NewFlow(guestForm(), true)
	require.NoError(t, f.Submit())

	require.NoError(t, f.InitiationFailed("This ticket tier is sold out."))
	assert.Equal(t, StepInput, f.Step)
	assert.Equal(t, "This ticket tier is sold out.", f.Error)
	assert.Equal(t, "254712345678", f.Form.Phone)
	assert.Equal(t, "jane@example.com", f.Form.GuestEmail)
	assert.Equal(t, "Jane", f.Form.GuestName)

	require.NoError(t, f.Submit())
	assert.Empty(t, f.Error)
	require.NoError(t, f.InitiationFailed(""))
	assert.Equal(t, MsgPaymentFailed, f.Error)
}

func TestFlow_NoBackwardJumps(t *testing.T) {
	f := NewFlow(guestForm(), true)
	assert.ErrorIs(t, f.InitiationFailed("x"), ErrInvalidTransition)
	assert.ErrorIs(t, f.Resolve(StepSuccess), ErrInvalidTransition)

	require.NoError(t, f.Submit())
	assert.ErrorIs(t, f.Resolve(StepInput), ErrInvalidTransition)
	assert.ErrorIs(t, f.Resolve(StepProcessing), ErrInvalidTransition)
}

func TestStep_Terminal(t *testing.T) {
	assert.False(t, StepInput.Terminal())
	assert.False(t, StepProcessing.Terminal())
	assert.True(t, StepSuccess.Terminal())
	assert.True(t, StepFailed.Terminal())
	assert.True(t, StepPending.Terminal())
}
