// Package currency converts THB amounts for display.
// Rates are a static table; nothing here talks to an FX provider.
package currency

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Base is the currency every stored amount is denominated in
const Base = "THB"

var ErrUnsupportedCurrency = errors.New("unsupported currency")

// Currency describes one display currency
type Currency struct {
	Code     string  `json:"code"`
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Rate     float64 `json:"rate"`     // units per 1 THB
	Decimals int     `json:"decimals"` // 0 for JPY/KRW style currencies
}

// Rates maps currency code to its display settings and THB rate
var Rates = map[string]Currency{
	"THB": {Code: "THB", Symbol: "฿", Name: "Thai Baht", Rate: 1, Decimals: 2},
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar", Rate: 0.028, Decimals: 2},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro", Rate: 0.026, Decimals: 2},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound", Rate: 0.022, Decimals: 2},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Rate: 4.1, Decimals: 0},
	"KRW": {Code: "KRW", Symbol: "₩", Name: "South Korean Won", Rate: 38, Decimals: 0},
	"CNY": {Code: "CNY", Symbol: "CN¥", Name: "Chinese Yuan", Rate: 0.2, Decimals: 2},
	"SGD": {Code: "SGD", Symbol: "S$", Name: "Singapore Dollar", Rate: 0.037, Decimals: 2},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Rate: 0.042, Decimals: 2},
}

var printer = message.NewPrinter(language.English)

// Options tweak Format output
type Options struct {
	// Compact drops a ".00" fraction on whole amounts
	Compact bool
	// ShowCode appends the ISO code, e.g. "$12.50 USD"
	ShowCode bool
}

// Lookup returns the table entry for code (case-insensitive)
func Lookup(code string) (Currency, error) {
	c, ok := Rates[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return Currency{}, ErrUnsupportedCurrency
	}
	return c, nil
}

// IsSupported reports whether code is in the rate table
func IsSupported(code string) bool {
	_, err := Lookup(code)
	return err == nil
}

// Supported lists all currencies sorted by code
func Supported() []Currency {
	out := make([]Currency, 0, len(Rates))
	for _, c := range Rates {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Convert converts a THB amount without rounding
func Convert(amountTHB float64, code string) (float64, error) {
	c, err := Lookup(code)
	if err != nil {
		return 0, err
	}
	return amountTHB * c.Rate, nil
}

// Round rounds a converted amount to the currency's display precision,
// half away from zero
func Round(amount float64, code string) (float64, error) {
	c, err := Lookup(code)
	if err != nil {
		return 0, err
	}
	return round(amount, c.Decimals), nil
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// Format converts amountTHB and renders it with symbol and thousands separators
func Format(amountTHB float64, code string, opts Options) (string, error) {
	c, err := Lookup(code)
	if err != nil {
		return "", err
	}

	v := round(amountTHB*c.Rate, c.Decimals)
	decimals := c.Decimals
	if opts.Compact && v == math.Trunc(v) {
		decimals = 0
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	var number string
	if decimals == 0 {
		number = printer.Sprintf("%d", int64(v))
	} else {
		number = printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
	}

	out := sign + c.Symbol + number
	if opts.ShowCode {
		out += " " + c.Code
	}
	return out, nil
}
