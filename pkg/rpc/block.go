package rpc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/loansx/loansx/pkg/loans"
)

// LoansSection is the pallet name of the lending module in runtime events.
const LoansSection = "loans"

// ChainHead returns the latest finalized height.
func (c *HTTPClient) ChainHead(ctx context.Context) (uint64, error) {
	var resp headResponse
	if err := c.doJSON(ctx, headPath, struct{}{}, &resp); err != nil {
		return 0, err
	}
	return uint64(resp.Height), nil
}

// BlockByHeight returns the block at height together with all of its events.
func (c *HTTPClient) BlockByHeight(ctx context.Context, height uint64) (*RpcBlock, error) {
	var b RpcBlock
	if err := c.doJSON(ctx, blockByHeightPath, QueryByHeightRequest{Height: height}, &b); err != nil {
		return nil, err
	}
	if uint64(b.Height) != height {
		return nil, fmt.Errorf("block by height %d: gateway returned height %d", height, b.Height)
	}
	if b.Timestamp == 0 {
		return nil, fmt.Errorf("block by height %d: %w", height, loans.ErrZeroTimestamp)
	}
	return &b, nil
}

// Header returns the block header the snapshot pass needs. A missing timestamp stays the zero
// time so the engine rejects it instead of bucketing it at the epoch.
func (b *RpcBlock) Header() loans.Block {
	h := loans.Block{Height: uint64(b.Height), Hash: b.Hash}
	if b.Timestamp != 0 {
		h.Timestamp = time.UnixMilli(int64(b.Timestamp)).UTC()
	}
	return h
}

// LoansEvents decodes the loans module events of the block in emission order.
func (b *RpcBlock) LoansEvents() []loans.Event {
	header := b.Header()
	out := make([]loans.Event, 0, len(b.Events))
	for _, ev := range b.Events {
		if ev.Section != LoansSection {
			continue
		}
		out = append(out, loans.Event{
			Hash:        ev.Hash,
			BlockHeight: header.Height,
			Timestamp:   header.Timestamp,
			Method:      ev.Method,
			Args:        normalizeArgs(ev.Method, ev.Args),
		})
	}
	return out
}

// amountArgs are the argument positions holding balances, per event kind.
var amountArgs = map[loans.EventKind][]int{
	loans.KindTransfer:  {2},
	loans.KindLiquidate: {4, 5},
	loans.KindReserve:   {2, 3},
}

// normalizeArgs strips thousands separators from human formatted numbers ("1,000" -> "1000")
// and turns hex balances into decimal. Accounts and other text are left untouched, even when
// they look like hex.
func normalizeArgs(method string, args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		if a != "" && strings.Trim(a, "0123456789,") == "" {
			a = strings.ReplaceAll(a, ",", "")
		}
		out[i] = a
	}
	for _, i := range amountArgs[loans.Classify(method)] {
		if i >= len(out) {
			continue
		}
		// unparseable amounts pass through and are rejected by the engine
		if v, err := NormalizeAmount(out[i]); err == nil && out[i] != "" {
			out[i] = v
		}
	}
	return out
}
