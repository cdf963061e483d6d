package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUnits formats an exact amount with thousand separators, keeping
// every fractional digit
func FormatUnits(amount decimal.Decimal) string {
	str := amount.String()

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign = "-"
		str = str[1:]
	}

	intPart, fracPart, hasFrac := strings.Cut(str, ".")

	var result strings.Builder
	result.WriteString(sign)
	n := len(intPart)
	for i, digit := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}
	if hasFrac {
		result.WriteString(".")
		result.WriteString(fracPart)
	}

	return result.String()
}

// FormatFee formats a platform fee rounded to two places for display
func FormatFee(fee decimal.Decimal) string {
	return fee.StringFixed(2)
}

// FormatRoll formats a die roll with a label
func FormatRoll(label string, roll int) string {
	return fmt.Sprintf("🎲 %s rolled **%d**", label, roll)
}
