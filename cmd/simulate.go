package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"dicewager/ledger"
	"dicewager/models"

	"github.com/shopspring/decimal"
)

// DefaultSimulationGames is used when no game count is given
const DefaultSimulationGames = 100000

// SimulationReport summarizes a batch of settlements
type SimulationReport struct {
	Games        int
	Stake        decimal.Decimal
	DiceMin      int
	DiceMax      int
	RollCounts   []int // RollCounts[i] counts rolls of DiceMin+i
	CreatorWins  int
	AccepterWins int
	Ties         int
	TotalFees    decimal.Decimal
	ExpectedFees decimal.Decimal // fee rate applied to every decisive pool
	CreatorNet   decimal.Decimal // creator's cumulative result against the stakes
}

// Simulate settles games challenges of the given stake through engine
func Simulate(engine *ledger.Engine, stake decimal.Decimal, games int) SimulationReport {
	diceMin, diceMax := engine.DiceRange()
	report := SimulationReport{
		Games:        games,
		Stake:        stake,
		DiceMin:      diceMin,
		DiceMax:      diceMax,
		RollCounts:   make([]int, diceMax-diceMin+1),
		TotalFees:    decimal.Zero,
		ExpectedFees: decimal.Zero,
		CreatorNet:   decimal.Zero,
	}

	challenge := models.Challenge{ID: "simulation", Amount: stake}
	for i := 0; i < games; i++ {
		result := engine.Resolve(challenge)
		report.countRoll(result.CreatorRoll)
		report.countRoll(result.AccepterRoll)

		report.TotalFees = report.TotalFees.Add(result.PlatformFee)
		report.CreatorNet = report.CreatorNet.Add(result.LocalCredit()).Sub(stake)

		switch result.Winner {
		case models.WinnerCreator:
			report.CreatorWins++
		case models.WinnerAccepter:
			report.AccepterWins++
		default:
			report.Ties++
			continue
		}
		report.ExpectedFees = report.ExpectedFees.Add(result.PrizePool.Mul(engine.FeeRate()))
	}

	return report
}

func (r *SimulationReport) countRoll(roll int) {
	idx := roll - r.DiceMin
	if idx >= 0 && idx < len(r.RollCounts) {
		r.RollCounts[idx]++
	}
}

// ChiSquared returns the uniformity statistic of all rolls and its degrees of freedom
func (r SimulationReport) ChiSquared() (float64, int) {
	total := 0
	for _, c := range r.RollCounts {
		total += c
	}
	if total == 0 || len(r.RollCounts) < 2 {
		return 0, 0
	}

	expected := float64(total) / float64(len(r.RollCounts))
	chi := 0.0
	for _, c := range r.RollCounts {
		chi += math.Pow(float64(c)-expected, 2) / expected
	}
	return chi, len(r.RollCounts) - 1
}

// TieRate is the expected share of ties for two independent fair dice
func (r SimulationReport) TieRate() float64 {
	return 1 / float64(r.DiceMax-r.DiceMin+1)
}

// Share returns n as a fraction of all games
func (r SimulationReport) Share(n int) float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(n) / float64(r.Games)
}

// FeesConsistent reports whether collected fees equal the rate applied to decisive pools
func (r SimulationReport) FeesConsistent() bool {
	return r.TotalFees.Equal(r.ExpectedFees)
}

// criticalChiSquared approximates the 95th percentile of the chi-squared
// distribution (Wilson-Hilferty).
func criticalChiSquared(df int) float64 {
	if df <= 0 {
		return 0
	}
	k := float64(df)
	z := 1.6449
	term := 1 - 2/(9*k) + z*math.Sqrt(2/(9*k))
	return k * term * term * term
}

// Print writes a human-readable report
func (r SimulationReport) Print(w io.Writer) {
	fmt.Fprintf(w, "=== Dice Settlement Simulation ===\n\n")
	fmt.Fprintf(w, "Games: %d | Stake: %s | Dice: [%d, %d]\n\n", r.Games, r.Stake, r.DiceMin, r.DiceMax)

	decisive := 1 - r.TieRate()
	fmt.Fprintf(w, "Outcomes:\n")
	fmt.Fprintf(w, "  Creator wins:  %8d (%6.3f%%, expected %6.3f%%)\n", r.CreatorWins, r.Share(r.CreatorWins)*100, decisive/2*100)
	fmt.Fprintf(w, "  Accepter wins: %8d (%6.3f%%, expected %6.3f%%)\n", r.AccepterWins, r.Share(r.AccepterWins)*100, decisive/2*100)
	fmt.Fprintf(w, "  Ties:          %8d (%6.3f%%, expected %6.3f%%)\n\n", r.Ties, r.Share(r.Ties)*100, r.TieRate()*100)

	fmt.Fprintf(w, "Fees:\n")
	fmt.Fprintf(w, "  Collected: %s\n", r.TotalFees)
	fmt.Fprintf(w, "  Expected:  %s\n", r.ExpectedFees)
	fmt.Fprintf(w, "  Creator net: %s\n\n", r.CreatorNet)

	fmt.Fprintf(w, "Roll distribution (deciles):\n")
	for _, line := range r.decileLines() {
		fmt.Fprintln(w, "  "+line)
	}

	chi, df := r.ChiSquared()
	critical := criticalChiSquared(df)
	fmt.Fprintf(w, "\nStatistical Tests:\n")
	fmt.Fprintf(w, "  χ² (uniformity): %.2f (should be < %.2f for 95%% confidence with %d df)\n", chi, critical, df)

	fmt.Fprintln(w, "\nConclusion:")
	if df == 0 || chi < critical {
		fmt.Fprintln(w, "  ✓ Rolls are consistent with a uniform die")
	} else {
		fmt.Fprintln(w, "  ✗ Rolls deviate from a uniform die")
	}
	if r.FeesConsistent() {
		fmt.Fprintln(w, "  ✓ Fees match the configured rate on every decisive game")
	} else {
		fmt.Fprintln(w, "  ✗ Fees do not match the configured rate")
	}
}

// decileLines groups roll counts into at most ten bands with a bar each
func (r SimulationReport) decileLines() []string {
	faces := len(r.RollCounts)
	if faces == 0 {
		return nil
	}
	bands := 10
	if faces < bands {
		bands = faces
	}

	total := 0
	for _, c := range r.RollCounts {
		total += c
	}

	lines := make([]string, 0, bands)
	for b := 0; b < bands; b++ {
		lo := b * faces / bands
		hi := (b+1)*faces/bands - 1
		count := 0
		for i := lo; i <= hi; i++ {
			count += r.RollCounts[i]
		}
		expected := float64(total) * float64(hi-lo+1) / float64(faces)
		deviation := 0.0
		barLength := 0
		if expected > 0 {
			deviation = (float64(count) - expected) / expected * 100
			barLength = int(float64(count) / expected * 20)
		}
		lines = append(lines, fmt.Sprintf("[%3d-%3d]: %8d (%+5.2f%%) %s",
			r.DiceMin+lo, r.DiceMin+hi, count, deviation, strings.Repeat("█", barLength)))
	}
	return lines
}
