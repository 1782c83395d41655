// Package pricing computes project prices from an hour estimate and the
// seniority level of the assigned resource.
package pricing

import (
	"strings"
)

// Recognised resource levels. Mid is the default for anything unrecognised.
const (
	LevelJunior = "junior"
	LevelMid    = "mid"
	LevelSenior = "senior"
	LevelExpert = "expert"
)

// Hourly rates in INR.
var rates = map[string]int{
	LevelJunior: 100,
	LevelMid:    400,
	LevelSenior: 600,
	LevelExpert: 1000,
}

// Table is the static rate table behind the PriceEvaluator contract.
type Table struct{}

func NewTable() *Table {
	return &Table{}
}

// ProjectPrice returns hours times the rate for the level. Level matching is
// partial and case-insensitive ("Senior Developer" maps to senior), checked
// in the order expert, senior, junior; everything else falls back to mid.
// Pure and total: identical inputs always yield identical output.
func (*Table) ProjectPrice(hours int, level string) int {
	return hours * Rate(level)
}

// Rate resolves a level string to its hourly rate.
func Rate(level string) int {
	l := strings.ToLower(strings.TrimSpace(level))
	switch {
	case strings.Contains(l, LevelExpert):
		return rates[LevelExpert]
	case strings.Contains(l, LevelSenior):
		return rates[LevelSenior]
	case strings.Contains(l, LevelJunior):
		return rates[LevelJunior]
	default:
		return rates[LevelMid]
	}
}

// FormatGrouped renders n with comma-grouped thousands, e.g. 1234567 ->
// "1,234,567".
func FormatGrouped(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := []byte{}
	if n == 0 {
		digits = append(digits, '0')
	}
	for i := 0; n > 0; i++ {
		if i > 0 && i%3 == 0 {
			digits = append(digits, ',')
		}
		digits = append(digits, byte('0'+n%10))
		n /= 10
	}

	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return sign + string(digits)
}
