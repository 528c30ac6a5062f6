package charts

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders numbers for tooltips, axes and print documents
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter creates a formatter for a currency symbol and BCP 47 locale.
// Unknown locales fall back to English grouping.
func NewFormatter(symbol, locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}
}

// Symbol returns the currency prefix
func (f *Formatter) Symbol() string { return f.symbol }

// Currency formats whole currency units with thousands separators: ₹1,235
func (f *Formatter) Currency(v float64) string {
	return f.signed(v, f.printer.Sprintf("%d", int64(math.Round(math.Abs(v)))))
}

// Money formats currency with two decimals and thousands separators: ₹1,234.50
func (f *Formatter) Money(v float64) string {
	return f.signed(v, f.printer.Sprintf("%.2f", math.Abs(v)))
}

// Number formats a plain number with thousands separators and no decimals
func (f *Formatter) Number(v float64) string {
	return f.printer.Sprintf("%d", int64(math.Round(v)))
}

// Quantity formats a quantity as a plain number
func (f *Formatter) Quantity(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// Format picks the representation for a unit
func (f *Formatter) Format(u Unit, v float64) string {
	switch u {
	case UnitCurrency:
		return f.Currency(v)
	case UnitCount:
		return f.Number(v)
	default:
		return f.Quantity(v)
	}
}

func (f *Formatter) signed(v float64, digits string) string {
	if v < 0 && strings.Trim(digits, "0.,") != "" {
		return "-" + f.symbol + digits
	}
	return f.symbol + digits
}

// Truncate shortens s to at most n runes, ending in an ellipsis when cut
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
