package loans_test

import (
	"testing"

	"github.com/loansx/loansx/pkg/loans"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := map[string]loans.EventKind{
		"Deposited":              loans.KindTransfer,
		"Redeemed":               loans.KindTransfer,
		"Borrowed":               loans.KindTransfer,
		"RepaidBorrow":           loans.KindTransfer,
		"LiquidatedBorrow":       loans.KindLiquidate,
		"NewMarket":              loans.KindMarket,
		"ActivateMarket":         loans.KindMarket,
		"UpdateMarket":           loans.KindMarket,
		"ReservesAdded":          loans.KindReserve,
		"ReservesReduced":        loans.KindReserve,
		"CollateralAssetAdded":   loans.KindIgnore,
		"CollateralAssetRemoved": loans.KindIgnore,
		"SomeRandomEvent":        loans.KindUnknown,
		"deposited":              loans.KindUnknown,
		"":                       loans.KindUnknown,
		"Borrowed ":              loans.KindUnknown,
	}
	for method, want := range cases {
		require.Equal(t, want, loans.Classify(method), method)
	}
}

func TestEventKindString(t *testing.T) {
	require.Equal(t, "transfer", loans.KindTransfer.String())
	require.Equal(t, "unknown", loans.EventKind(99).String())
}
