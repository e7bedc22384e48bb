package textutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripCurrency(t *testing.T) {
	testCases := []struct {
		in       string
		expected int64
	}{
		{"₹12,345", 12345},
		{"", 0},
		{"   ", 0},
		{"2,000.00", 2000},
		{"₹ 1,000", 1000},
		{"Rs. 500", 500},
		{"499", 499},
		{"no digits here", 0},
		{"₹", 0},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, StripCurrency(test.in), "input %q", test.in)
	}
}

func TestCapitalize(t *testing.T) {
	require.Equal(t, "Credit", Capitalize("CREDIT"))
	require.Equal(t, "Debit", Capitalize(" debit "))
	require.Equal(t, "", Capitalize(""))
	require.Equal(t, "X", Capitalize("x"))
}

func TestNormalizePage(t *testing.T) {
	require.Equal(
		t,
		"delivery not available for 560001",
		NormalizePage("  Delivery \n\t NOT   Available  for 560001 "),
	)
	require.Equal(t, "", NormalizePage("   \n "))
}
