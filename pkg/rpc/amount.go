package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// NormalizeAmount turns a storage value into a plain decimal string. The gateway returns u128
// values either as 0x-prefixed fixed-width hex or as decimal text, optionally with thousands
// separators. Empty input is zero.
func NormalizeAmount(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0", nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		digits := strings.TrimLeft(s[2:], "0")
		if digits == "" {
			return "0", nil
		}
		v, err := uint256.FromHex("0x" + digits)
		if err != nil {
			return "", fmt.Errorf("hex amount %q: %w", s, err)
		}
		return v.Dec(), nil
	}
	v, err := uint256.FromDecimal(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return "", fmt.Errorf("decimal amount %q: %w", s, err)
	}
	return v.Dec(), nil
}

// Amount is an unsigned integer of up to 256 bits, kept as a normalised decimal string.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw, err := scalarText(data)
	if err != nil {
		return err
	}
	v, err := NormalizeAmount(raw)
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

func (a Amount) String() string { return string(a) }

// Uint is a 64-bit storage value that may arrive as a number, decimal text or hex.
type Uint uint64

func (u *Uint) UnmarshalJSON(data []byte) error {
	raw, err := scalarText(data)
	if err != nil {
		return err
	}
	v, err := NormalizeAmount(raw)
	if err != nil {
		return err
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fmt.Errorf("value %q overflows uint64", v)
	}
	*u = Uint(n)
	return nil
}

// scalarText returns the text of a JSON string or number; null is empty.
func scalarText(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("expected string or number, got %s", data)
	}
	return n.String(), nil
}

// ParseAssetIDs converts the human readable market keys ("2,100") into sorted unique ids.
func ParseAssetIDs(keys []string) ([]uint32, error) {
	seen := make(map[uint32]struct{}, len(keys))
	ids := make([]uint32, 0, len(keys))
	for _, k := range keys {
		clean := strings.ReplaceAll(strings.TrimSpace(k), ",", "")
		id, err := strconv.ParseUint(clean, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("asset id %q: %w", k, err)
		}
		if _, dup := seen[uint32(id)]; dup {
			continue
		}
		seen[uint32(id)] = struct{}{}
		ids = append(ids, uint32(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
