package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}

func newTestEngine(t *testing.T, rolls ...int) *Engine {
	t.Helper()
	engine, err := NewEngine(dec("0.0005"), 1, 100, NewSequenceRoller(rolls...))
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	return engine
}
