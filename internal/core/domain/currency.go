package domain

import (
	"fmt"
	"sort"
	"strings"
)

// CurrencyCode is an ISO 4217 alphabetic code (e.g., "USD").
type CurrencyCode string

// String implements fmt.Stringer.
func (c CurrencyCode) String() string { return string(c) }

// Info returns the registry entry for the code. ok is false for unsupported codes.
func (c CurrencyCode) Info() (CurrencyInfo, bool) { return LookupCurrency(c) }

// CurrencyInfo represents the static metadata of a supported currency.
type CurrencyInfo struct {
	Code          CurrencyCode `json:"code"`          // e.g., "USD"
	Name          string       `json:"name"`          // e.g., "US Dollar"
	Symbol        string       `json:"symbol"`        // e.g., "$"
	DecimalPlaces int32        `json:"decimalPlaces"` // ISO 4217 minor unit
	NumericCode   string       `json:"numericCode"`   // e.g., "840"
}

// currencies is the single source of truth for minor units. Nothing else in the
// module hard-codes currency precision.
var currencies = map[CurrencyCode]CurrencyInfo{
	"AED": {Code: "AED", Name: "UAE Dirham", Symbol: "د.إ", DecimalPlaces: 2, NumericCode: "784"},
	"AUD": {Code: "AUD", Name: "Australian Dollar", Symbol: "A$", DecimalPlaces: 2, NumericCode: "036"},
	"BGN": {Code: "BGN", Name: "Bulgarian Lev", Symbol: "лв", DecimalPlaces: 2, NumericCode: "975"},
	"BHD": {Code: "BHD", Name: "Bahraini Dinar", Symbol: "BD", DecimalPlaces: 3, NumericCode: "048"},
	"BRL": {Code: "BRL", Name: "Brazilian Real", Symbol: "R$", DecimalPlaces: 2, NumericCode: "986"},
	"CAD": {Code: "CAD", Name: "Canadian Dollar", Symbol: "C$", DecimalPlaces: 2, NumericCode: "124"},
	"CHF": {Code: "CHF", Name: "Swiss Franc", Symbol: "CHF", DecimalPlaces: 2, NumericCode: "756"},
	"CLP": {Code: "CLP", Name: "Chilean Peso", Symbol: "CLP$", DecimalPlaces: 0, NumericCode: "152"},
	"CNY": {Code: "CNY", Name: "Chinese Yuan", Symbol: "¥", DecimalPlaces: 2, NumericCode: "156"},
	"CZK": {Code: "CZK", Name: "Czech Koruna", Symbol: "Kč", DecimalPlaces: 2, NumericCode: "203"},
	"DKK": {Code: "DKK", Name: "Danish Krone", Symbol: "kr", DecimalPlaces: 2, NumericCode: "208"},
	"EUR": {Code: "EUR", Name: "Euro", Symbol: "€", DecimalPlaces: 2, NumericCode: "978"},
	"GBP": {Code: "GBP", Name: "Pound Sterling", Symbol: "£", DecimalPlaces: 2, NumericCode: "826"},
	"HKD": {Code: "HKD", Name: "Hong Kong Dollar", Symbol: "HK$", DecimalPlaces: 2, NumericCode: "344"},
	"HUF": {Code: "HUF", Name: "Hungarian Forint", Symbol: "Ft", DecimalPlaces: 2, NumericCode: "348"},
	"IDR": {Code: "IDR", Name: "Indonesian Rupiah", Symbol: "Rp", DecimalPlaces: 2, NumericCode: "360"},
	"ILS": {Code: "ILS", Name: "Israeli New Shekel", Symbol: "₪", DecimalPlaces: 2, NumericCode: "376"},
	"INR": {Code: "INR", Name: "Indian Rupee", Symbol: "₹", DecimalPlaces: 2, NumericCode: "356"},
	"ISK": {Code: "ISK", Name: "Icelandic Króna", Symbol: "kr", DecimalPlaces: 0, NumericCode: "352"},
	"JOD": {Code: "JOD", Name: "Jordanian Dinar", Symbol: "JD", DecimalPlaces: 3, NumericCode: "400"},
	"JPY": {Code: "JPY", Name: "Japanese Yen", Symbol: "¥", DecimalPlaces: 0, NumericCode: "392"},
	"KRW": {Code: "KRW", Name: "South Korean Won", Symbol: "₩", DecimalPlaces: 0, NumericCode: "410"},
	"KWD": {Code: "KWD", Name: "Kuwaiti Dinar", Symbol: "KD", DecimalPlaces: 3, NumericCode: "414"},
	"MXN": {Code: "MXN", Name: "Mexican Peso", Symbol: "MX$", DecimalPlaces: 2, NumericCode: "484"},
	"MYR": {Code: "MYR", Name: "Malaysian Ringgit", Symbol: "RM", DecimalPlaces: 2, NumericCode: "458"},
	"NOK": {Code: "NOK", Name: "Norwegian Krone", Symbol: "kr", DecimalPlaces: 2, NumericCode: "578"},
	"NZD": {Code: "NZD", Name: "New Zealand Dollar", Symbol: "NZ$", DecimalPlaces: 2, NumericCode: "554"},
	"OMR": {Code: "OMR", Name: "Omani Rial", Symbol: "OMR", DecimalPlaces: 3, NumericCode: "512"},
	"PHP": {Code: "PHP", Name: "Philippine Peso", Symbol: "₱", DecimalPlaces: 2, NumericCode: "608"},
	"PLN": {Code: "PLN", Name: "Polish Złoty", Symbol: "zł", DecimalPlaces: 2, NumericCode: "985"},
	"RON": {Code: "RON", Name: "Romanian Leu", Symbol: "lei", DecimalPlaces: 2, NumericCode: "946"},
	"SAR": {Code: "SAR", Name: "Saudi Riyal", Symbol: "﷼", DecimalPlaces: 2, NumericCode: "682"},
	"SEK": {Code: "SEK", Name: "Swedish Krona", Symbol: "kr", DecimalPlaces: 2, NumericCode: "752"},
	"SGD": {Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", DecimalPlaces: 2, NumericCode: "702"},
	"THB": {Code: "THB", Name: "Thai Baht", Symbol: "฿", DecimalPlaces: 2, NumericCode: "764"},
	"TRY": {Code: "TRY", Name: "Turkish Lira", Symbol: "₺", DecimalPlaces: 2, NumericCode: "949"},
	"USD": {Code: "USD", Name: "US Dollar", Symbol: "$", DecimalPlaces: 2, NumericCode: "840"},
	"ZAR": {Code: "ZAR", Name: "South African Rand", Symbol: "R", DecimalPlaces: 2, NumericCode: "710"},
}

// LookupCurrency returns the metadata for a supported code.
func LookupCurrency(code CurrencyCode) (CurrencyInfo, bool) {
	info, ok := currencies[code]
	return info, ok
}

// MustCurrency returns the metadata for a supported code and panics otherwise.
// Use it only for codes that have already been validated.
func MustCurrency(code CurrencyCode) CurrencyInfo {
	info, ok := currencies[code]
	if !ok {
		panic(fmt.Sprintf("domain: unsupported currency %q", code))
	}
	return info
}

// IsSupportedCurrency reports whether code is part of the registry.
func IsSupportedCurrency(code CurrencyCode) bool {
	_, ok := currencies[code]
	return ok
}

// ParseCurrencyCode normalises s (trim, upper-case) and checks it against the registry.
func ParseCurrencyCode(s string) (CurrencyCode, bool) {
	code := CurrencyCode(strings.ToUpper(strings.TrimSpace(s)))
	return code, IsSupportedCurrency(code)
}

// SupportedCurrencies returns all registry entries sorted by code.
func SupportedCurrencies() []CurrencyInfo {
	out := make([]CurrencyInfo, 0, len(currencies))
	for _, info := range currencies {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
