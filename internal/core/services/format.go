package services

import (
	"strconv"
	"strings"

	"github.com/SscSPs/fx_engine/internal/core/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLocale is used when a locale tag is empty or cannot be parsed.
var DefaultLocale = language.English

// FormatMoney renders m with its currency symbol, the locale's grouping and
// decimal marks, and exactly the currency's number of minor digits. Every
// digit of the rounded amount is kept, however large.
func FormatMoney(m domain.MonetaryAmount, locale string) string {
	decimals := int32(2)
	symbol := string(m.Currency)
	if info, ok := domain.LookupCurrency(m.Currency); ok {
		decimals = info.DecimalPlaces
		symbol = info.Symbol
	}

	rounded := RoundAmount(m.Amount, decimals, domain.RoundHalfEven)
	p := message.NewPrinter(parseLocale(locale))
	formatted := symbol + formatDigits(p, rounded.Abs(), decimals)
	if rounded.IsNegative() {
		return "-" + formatted
	}
	return formatted
}

// formatDigits renders a non-negative amount without going through float64.
// The printer only takes machine numbers, so the whole and fractional digits
// are printed as separate integers. A whole part beyond uint64 is left
// ungrouped.
func formatDigits(p *message.Printer, amount decimal.Decimal, decimals int32) string {
	wholeDigits, fracDigits, _ := strings.Cut(amount.StringFixed(decimals), ".")

	whole := wholeDigits
	if n, err := strconv.ParseUint(wholeDigits, 10, 64); err == nil {
		whole = p.Sprint(number.Decimal(n))
	}
	if fracDigits == "" {
		return whole
	}

	frac := fracDigits
	if n, err := strconv.ParseUint(fracDigits, 10, 64); err == nil {
		frac = p.Sprint(number.Decimal(n, number.MinIntegerDigits(len(fracDigits)), number.NoSeparator()))
	}
	return whole + decimalSeparator(p) + frac
}

// decimalSeparator is the printer's decimal mark, read off an exactly
// representable sample.
func decimalSeparator(p *message.Printer) string {
	sample := []rune(p.Sprint(number.Decimal(1.5, number.Scale(1))))
	if len(sample) < 3 {
		return "."
	}
	return string(sample[1 : len(sample)-1])
}

// FormatDualCurrency renders only the functional side when both sides share a
// currency, otherwise "functional (original @ rate)".
func FormatDualCurrency(d domain.DualCurrencyAmount, locale string) string {
	functional := FormatMoney(d.Functional, locale)
	if d.IsIdentity() {
		return functional
	}
	return functional + " (" + FormatMoney(d.Original, locale) + " @ " + d.ExchangeRate.String() + ")"
}

func parseLocale(locale string) language.Tag {
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	return tag
}
