package ui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrBudgetNotNumber = errors.New("budget is not a number")
	ErrBudgetNegative  = errors.New("budget is negative")
)

// ParseBudget reads the max-price field. Surrounding spaces are ignored;
// NaN and infinities are not numbers for this purpose.
func ParseBudget(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrBudgetNotNumber, raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %v", ErrBudgetNegative, v)
	}
	return v, nil
}
