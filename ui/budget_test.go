package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBudget(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr error
	}{
		{"10", 10, nil},
		{" 12.5 ", 12.5, nil},
		{"0", 0, nil},
		{"1e2", 100, nil},
		{"-0.01", 0, ErrBudgetNegative},
		{"abc", 0, ErrBudgetNotNumber},
		{"$10", 0, ErrBudgetNotNumber},
		{"", 0, ErrBudgetNotNumber},
		{"NaN", 0, ErrBudgetNotNumber},
		{"-Inf", 0, ErrBudgetNotNumber},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseBudget(tt.raw)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
