package loans

// EventKind is the semantic class of a loans module event.
type EventKind int

const (
	KindUnknown EventKind = iota
	KindTransfer
	KindLiquidate
	KindMarket
	KindReserve
	KindIgnore
)

func (k EventKind) String() string {
	switch k {
	case KindTransfer:
		return "transfer"
	case KindLiquidate:
		return "liquidate"
	case KindMarket:
		return "market"
	case KindReserve:
		return "reserve"
	case KindIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

var eventKinds = map[string]EventKind{
	"Deposited":              KindTransfer,
	"Redeemed":               KindTransfer,
	"Borrowed":               KindTransfer,
	"RepaidBorrow":           KindTransfer,
	"LiquidatedBorrow":       KindLiquidate,
	"NewMarket":              KindMarket,
	"ActivateMarket":         KindMarket,
	"UpdateMarket":           KindMarket,
	"ReservesAdded":          KindReserve,
	"ReservesReduced":        KindReserve,
	"CollateralAssetAdded":   KindIgnore,
	"CollateralAssetRemoved": KindIgnore,
}

// Classify maps an event method name to its kind. Matching is exact and case-sensitive;
// anything not listed is KindUnknown.
func Classify(method string) EventKind {
	if k, ok := eventKinds[method]; ok {
		return k
	}
	return KindUnknown
}
