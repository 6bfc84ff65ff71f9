// Package rupiah formats and parses Indonesian rupiah amounts.
package rupiah

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidAmount is returned when an amount string cannot be read as a
// whole rupiah value.
var ErrInvalidAmount = errors.New("invalid rupiah amount")

var printer = message.NewPrinter(language.Indonesian)

// Format renders a whole rupiah value with dot thousands separators,
// e.g. 1500000 becomes "Rp 1.500.000".
func Format(value int64) string {
	return "Rp " + printer.Sprintf("%d", value)
}

// FormatString renders a raw value. Anything that is not an integer
// renders as "Rp 0".
func FormatString(value string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return Format(0)
	}
	return Format(n)
}

// ParseAmount reads amounts the way the guarantee service prints them,
// with comma thousands separators ("21,500,000").
func ParseAmount(s string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%w: %q has a fractional part", ErrInvalidAmount, s)
	}

	return d.IntPart(), nil
}
