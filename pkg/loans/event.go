package loans

import (
	"fmt"
	"strconv"
	"time"
)

// Event is a decoded loans module event.
// Hash is the unique chain transaction hash and identifies every action row derived from it.
type Event struct {
	Hash        string
	BlockHeight uint64
	Timestamp   time.Time
	Method      string
	Args        []string
}

// Block is the header data the snapshot pass needs.
type Block struct {
	Height    uint64
	Hash      string
	Timestamp time.Time
}

// TransferArgs are the arguments of Deposited, Redeemed, Borrowed and RepaidBorrow.
type TransferArgs struct {
	Address string
	AssetID uint32
	Amount  string
}

// LiquidateArgs are the arguments of LiquidatedBorrow.
type LiquidateArgs struct {
	Liquidator        string
	Borrower          string
	LiquidateAssetID  uint32
	CollateralAssetID uint32
	RepayAmount       string
	CollateralAmount  string
}

// MarketArgs are the arguments of NewMarket, ActivateMarket and UpdateMarket.
type MarketArgs struct {
	Admin   string
	AssetID uint32
}

// ReserveArgs are the arguments of ReservesAdded and ReservesReduced.
type ReserveArgs struct {
	Admin         string
	AssetID       uint32
	Amount        string
	TotalReserves string
}

func (e Event) need(n int) error {
	if len(e.Args) < n {
		return fmt.Errorf("%w: %s has %d args, want %d", ErrMalformedEvent, e.Method, len(e.Args), n)
	}
	return nil
}

func (e Event) Transfer() (TransferArgs, error) {
	if err := e.need(3); err != nil {
		return TransferArgs{}, err
	}
	asset, err := parseAssetID(e.Args[1])
	if err != nil {
		return TransferArgs{}, err
	}
	if _, err := ParseAmount(e.Args[2]); err != nil {
		return TransferArgs{}, fmt.Errorf("%w: amount: %v", ErrMalformedEvent, err)
	}
	return TransferArgs{Address: e.Args[0], AssetID: asset, Amount: e.Args[2]}, nil
}

func (e Event) Liquidate() (LiquidateArgs, error) {
	if err := e.need(6); err != nil {
		return LiquidateArgs{}, err
	}
	liquidated, err := parseAssetID(e.Args[2])
	if err != nil {
		return LiquidateArgs{}, err
	}
	collateral, err := parseAssetID(e.Args[3])
	if err != nil {
		return LiquidateArgs{}, err
	}
	for _, amount := range e.Args[4:6] {
		if _, err := ParseAmount(amount); err != nil {
			return LiquidateArgs{}, fmt.Errorf("%w: amount: %v", ErrMalformedEvent, err)
		}
	}
	return LiquidateArgs{
		Liquidator:        e.Args[0],
		Borrower:          e.Args[1],
		LiquidateAssetID:  liquidated,
		CollateralAssetID: collateral,
		RepayAmount:       e.Args[4],
		CollateralAmount:  e.Args[5],
	}, nil
}

func (e Event) Market() (MarketArgs, error) {
	if err := e.need(2); err != nil {
		return MarketArgs{}, err
	}
	asset, err := parseAssetID(e.Args[1])
	if err != nil {
		return MarketArgs{}, err
	}
	return MarketArgs{Admin: e.Args[0], AssetID: asset}, nil
}

func (e Event) Reserve() (ReserveArgs, error) {
	if err := e.need(4); err != nil {
		return ReserveArgs{}, err
	}
	asset, err := parseAssetID(e.Args[1])
	if err != nil {
		return ReserveArgs{}, err
	}
	return ReserveArgs{Admin: e.Args[0], AssetID: asset, Amount: e.Args[2], TotalReserves: e.Args[3]}, nil
}

func parseAssetID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: asset id %q", ErrMalformedEvent, s)
	}
	return uint32(id), nil
}
