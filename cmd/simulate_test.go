package cmd

import (
	"bytes"
	"testing"

	"dicewager/ledger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulate_CountsOutcomesAndFees(t *testing.T) {
	// creator wins, accepter wins, tie, then repeats
	roller := ledger.NewSequenceRoller(60, 40, 10, 90, 50, 50)
	engine, err := ledger.NewEngine(decimal.RequireFromString("0.0005"), 1, 100, roller)
	require.NoError(t, err)

	report := Simulate(engine, decimal.NewFromInt(100), 6)

	assert.Equal(t, 2, report.CreatorWins)
	assert.Equal(t, 2, report.AccepterWins)
	assert.Equal(t, 2, report.Ties)
	// 4 decisive games at 0.1 each
	assert.Equal(t, "0.4", report.TotalFees.String())
	assert.True(t, report.FeesConsistent())
	// +99.9 -100 +0 per cycle
	assert.Equal(t, "-0.2", report.CreatorNet.String())

	assert.Equal(t, 2, report.RollCounts[60-1])
	assert.Equal(t, 4, report.RollCounts[50-1])
	assert.Len(t, report.RollCounts, 100)
}

func TestSimulationReport_ChiSquared(t *testing.T) {
	uniform := SimulationReport{DiceMin: 1, DiceMax: 4, RollCounts: []int{25, 25, 25, 25}}
	chi, df := uniform.ChiSquared()
	assert.Equal(t, 0.0, chi)
	assert.Equal(t, 3, df)

	skewed := SimulationReport{DiceMin: 1, DiceMax: 2, RollCounts: []int{75, 25}}
	chi, df = skewed.ChiSquared()
	assert.InDelta(t, 25.0, chi, 1e-9)
	assert.Equal(t, 1, df)

	empty := SimulationReport{RollCounts: []int{0, 0}}
	chi, df = empty.ChiSquared()
	assert.Zero(t, chi)
	assert.Zero(t, df)
}

func TestCriticalChiSquared(t *testing.T) {
	// Tabulated 95th percentiles
	assert.InDelta(t, 16.92, criticalChiSquared(9), 0.1)
	assert.InDelta(t, 123.23, criticalChiSquared(99), 0.5)
	assert.Zero(t, criticalChiSquared(0))
}

func TestSimulate_RandomRollerIsUniform(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping statistical run in short mode")
	}
	engine, err := ledger.NewEngine(decimal.RequireFromString("0.0005"), 1, 6, nil)
	require.NoError(t, err)

	report := Simulate(engine, decimal.NewFromInt(10), 60000)

	chi, df := report.ChiSquared()
	// generous bound so the test is not flaky
	assert.Less(t, chi, criticalChiSquared(df)*2)
	assert.InDelta(t, 1.0/6.0, report.Share(report.Ties), 0.02)
	assert.Equal(t, report.Games, report.CreatorWins+report.AccepterWins+report.Ties)
	assert.True(t, report.FeesConsistent())
}

func TestSimulationReport_Print(t *testing.T) {
	engine, err := ledger.NewEngine(decimal.RequireFromString("0.0005"), 1, 100, ledger.NewSequenceRoller(60, 40))
	require.NoError(t, err)
	report := Simulate(engine, decimal.NewFromInt(100), 3)

	var buf bytes.Buffer
	report.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Games: 3 | Stake: 100 | Dice: [1, 100]")
	assert.Contains(t, out, "Creator wins:         3")
	assert.Contains(t, out, "Collected: 0.3")
	assert.Contains(t, out, "[  1- 10]")
	assert.Contains(t, out, "✓ Fees match")
}
