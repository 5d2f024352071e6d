package loans

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ParseAmount parses an unsigned decimal integer string of arbitrary size.
// Signs, fractions and exponents are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %v", ErrInvalidAmount, s, err)
	}
	return d, nil
}

// AccruedBorrowBalance returns floor(current * principal / entry) for a borrow opened at the
// entry index and observed at the current index. A zero principal is no borrow and yields "0"
// whatever the indices are.
func AccruedBorrowBalance(principal, entryIndex, currentIndex string) (string, error) {
	p, err := ParseAmount(principal)
	if err != nil {
		return "", fmt.Errorf("principal: %w", err)
	}
	if p.IsZero() {
		return "0", nil
	}
	entry, err := ParseAmount(entryIndex)
	if err != nil {
		return "", fmt.Errorf("entry index: %w", err)
	}
	if entry.IsZero() {
		return "", ErrZeroIndex
	}
	current, err := ParseAmount(currentIndex)
	if err != nil {
		return "", fmt.Errorf("current index: %w", err)
	}

	// multiply first so the single division is exact up to the final truncation
	q, _ := current.Mul(p).QuoRem(entry, 0)
	return q.String(), nil
}
