package payments

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmountCents(t *testing.T) {
	assert.Equal(t, int64(2500), ParseAmountCents("Paid - $25"))
	assert.Equal(t, int64(1250), ParseAmountCents("Paid - $12.50"))
	assert.Equal(t, int64(500), ParseAmountCents("$5 drop-in"))

	// No embedded amount falls back to the default charge.
	assert.Equal(t, int64(2500), ParseAmountCents("Paid"))
	assert.Equal(t, int64(2500), ParseAmountCents("Free"))
	assert.Equal(t, int64(2500), ParseAmountCents(""))
}

func TestValidMode(t *testing.T) {
	assert.True(t, ValidMode("test"))
	assert.True(t, ValidMode("live"))
	assert.True(t, ValidMode("simulated"))
	assert.False(t, ValidMode("sandbox"))
}

func TestCreateIntent_SimulatedWithoutKey(t *testing.T) {
	svc := NewService(nil, Config{Mode: ModeTest}) // no secret key

	intent, err := svc.CreateIntent(context.Background(), "u1", CreateIntentInput{
		Amount:  2500,
		EventID: "e1",
	})
	require.NoError(t, err)

	assert.True(t, intent.Simulated)
	assert.True(t, strings.HasPrefix(intent.PaymentIntentID, "pi_sim_"))
	assert.Contains(t, intent.ClientSecret, "_secret_")
	assert.Equal(t, int64(2500), intent.Amount)
	assert.Equal(t, "usd", intent.Currency)
}

func TestCreateIntent_UniqueSimulatedIDs(t *testing.T) {
	svc := NewService(nil, Config{Mode: ModeSimulated})

	a, err := svc.CreateIntent(context.Background(), "u1", CreateIntentInput{Amount: 100})
	require.NoError(t, err)
	b, err := svc.CreateIntent(context.Background(), "u1", CreateIntentInput{Amount: 100})
	require.NoError(t, err)

	assert.NotEqual(t, a.PaymentIntentID, b.PaymentIntentID)
}

func TestCreateIntent_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(nil, Config{Mode: ModeSimulated})

	_, err := svc.CreateIntent(context.Background(), "u1", CreateIntentInput{Amount: 0})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.CreateIntent(context.Background(), "u1", CreateIntentInput{Amount: -100})
	assert.ErrorIs(t, err, ErrBadRequest)
}
