package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledProvider(t *testing.T) {
	var p Provider = Disabled{}
	intent, err := p.CreateIntent(context.Background(), 1000, "usd")
	assert.Nil(t, intent)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewStripeImplementsProvider(t *testing.T) {
	var p Provider = NewStripe("sk_test_dummy")
	assert.NotNil(t, p)
}
