package loans_test

import (
	"fmt"
	"testing"

	"github.com/loansx/loansx/pkg/loans"
	"github.com/stretchr/testify/require"
)

func TestAccruedBorrowBalance_ZeroPrincipal(t *testing.T) {
	for _, idx := range [][2]string{{"0", "0"}, {"1", "5"}, {"1000000000000000000", "1"}, {"0", "123"}} {
		got, err := loans.AccruedBorrowBalance("0", idx[0], idx[1])
		require.NoError(t, err)
		require.Equal(t, "0", got)
	}
}

func TestAccruedBorrowBalance_IdentityWhenIndexUnchanged(t *testing.T) {
	for _, tc := range []struct{ principal, index string }{
		{"1", "1"},
		{"1000000000000", "1000000000000000000"},
		{"340282366920938463463374607431768211455", "1000000000000000007"},
		{"7", "340282366920938463463374607431768211455"},
	} {
		got, err := loans.AccruedBorrowBalance(tc.principal, tc.index, tc.index)
		require.NoError(t, err)
		require.Equal(t, tc.principal, got)
	}
}

func TestAccruedBorrowBalance_Floors(t *testing.T) {
	got, err := loans.AccruedBorrowBalance("7", "3", "10")
	require.NoError(t, err)
	require.Equal(t, "23", got)

	got, err = loans.AccruedBorrowBalance("1000", "1000000000000000000", "1000000000000000003")
	require.NoError(t, err)
	require.Equal(t, "1000", got)

	got, err = loans.AccruedBorrowBalance("1000000000000", "1000000000000000000", "1020000000000000000")
	require.NoError(t, err)
	require.Equal(t, "1020000000000", got)
}

func TestAccruedBorrowBalance_BeyondUint64(t *testing.T) {
	got, err := loans.AccruedBorrowBalance(
		"340282366920938463463374607431768211455",
		"1000000000000000000",
		"1500000000000000000",
	)
	require.NoError(t, err)
	require.Equal(t, "510423550381407695195061911147652317182", got)
}

func TestAccruedBorrowBalance_MonotonicInCurrentIndex(t *testing.T) {
	const principal, entry = "123456789012345678901234567890", "1000000000000000000"
	prev := "0"
	for i := 0; i < 50; i++ {
		current := fmt.Sprintf("%d", 1000000000000000000+int64(i)*12345678901)
		got, err := loans.AccruedBorrowBalance(principal, entry, current)
		require.NoError(t, err)

		a, _ := loans.ParseAmount(prev)
		b, _ := loans.ParseAmount(got)
		require.False(t, b.LessThan(a), "balance decreased at %s", current)
		prev = got
	}
}

func TestAccruedBorrowBalance_Errors(t *testing.T) {
	_, err := loans.AccruedBorrowBalance("10", "0", "5")
	require.ErrorIs(t, err, loans.ErrZeroIndex)

	for _, bad := range []string{"", "-1", "1.5", "1e18", "0x10", " 1"} {
		_, err := loans.AccruedBorrowBalance(bad, "1", "1")
		require.ErrorIs(t, err, loans.ErrInvalidAmount, bad)
	}
	_, err = loans.AccruedBorrowBalance("1", "1", "abc")
	require.ErrorIs(t, err, loans.ErrInvalidAmount)
}

func TestParseAmount_Lossless(t *testing.T) {
	const big = "115792089237316195423570985008687907853269984665640564039457584007913129639935"
	d, err := loans.ParseAmount(big)
	require.NoError(t, err)
	require.Equal(t, big, d.String())
}
