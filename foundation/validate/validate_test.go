package validate_test

import (
	"testing"

	"github.com/ardanlabs/powledger/foundation/validate"
	"github.com/stretchr/testify/require"
)

type submission struct {
	Sender *string  `json:"sender" validate:"required"`
	Amount *float64 `json:"amount" validate:"required"`
	Note   string   `json:"-"`
}

func TestCheckReportsJSONFieldNames(t *testing.T) {
	err := validate.Check(submission{})
	require.Error(t, err)
	require.True(t, validate.IsFieldErrors(err))

	fields := validate.GetFieldErrors(err).Fields()
	require.Len(t, fields, 2)
	require.Equal(t, "sender is a required field", fields["sender"])
	require.Equal(t, "amount is a required field", fields["amount"])
}

func TestCheckAcceptsZeroValuesBehindPointers(t *testing.T) {
	sender := ""
	amount := 0.0

	require.NoError(t, validate.Check(submission{Sender: &sender, Amount: &amount}))
}

func TestGetFieldErrorsOnOtherErrors(t *testing.T) {
	require.Nil(t, validate.GetFieldErrors(nil))
	require.False(t, validate.IsFieldErrors(nil))
}
