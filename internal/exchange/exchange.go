// Package exchange converts base-unit amounts into display currencies.
//
// Conversion is presentation only: ledgers, balances and debts are always kept in the
// base currency (EUR) and never rounded by this package.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitty/internal/money"
)

// BaseCurrency is the currency ledger amounts are recorded in.
const BaseCurrency = "eur"

// DateLayout is the layout of rate dates.
const DateLayout = "2006-01-02"

// rateScale is the number of fractional digits kept on published rates.
const rateScale = 4

// SupportedCurrencies are the display currencies rates are kept for.
var SupportedCurrencies = []string{"eur", "usd", "chf", "gbp"}

var (
	// ErrUnknownCurrency is returned for currencies without a rate.
	ErrUnknownCurrency = errors.New("unknown currency")
	// ErrRatesNotFound is returned when no rates are published for a date.
	ErrRatesNotFound = errors.New("exchange rates not found")
)

// Rates are the EUR exchange rates of one day: 1 EUR = Rates[currency] units.
type Rates struct {
	Date  string                     `json:"date"`
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Source provides exchange rates for a date.
type Source interface {
	Rates(ctx context.Context, date time.Time) (*Rates, error)
}

// Convert expresses amount (in BaseCurrency) in currency, rounded half-up to 8 digits.
func Convert(rates *Rates, amount money.Money, currency string) (money.Money, error) {
	currency = normalize(currency)
	if currency == BaseCurrency {
		return amount, nil
	}

	rate, ok := rates.Rates[currency]
	if !ok {
		return money.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return amount.MulRate(rate)
}

// ToBase converts amount given in currency back into BaseCurrency, rounded half-up.
func ToBase(rates *Rates, amount money.Money, currency string) (money.Money, error) {
	currency = normalize(currency)
	if currency == BaseCurrency {
		return amount, nil
	}

	rate, ok := rates.Rates[currency]
	if !ok || rate.IsZero() {
		return money.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return money.FromDecimal(amount.Decimal().DivRound(rate, money.Scale))
}

// IsSupported reports whether currency is one of SupportedCurrencies.
func IsSupported(currency string) bool {
	currency = normalize(currency)
	for _, c := range SupportedCurrencies {
		if c == currency {
			return true
		}
	}
	return false
}

// filter keeps the supported currencies and rounds each rate to rateScale digits.
func filter(date string, all map[string]decimal.Decimal) *Rates {
	rates := &Rates{Date: date, Base: BaseCurrency, Rates: make(map[string]decimal.Decimal, len(SupportedCurrencies))}
	for _, c := range SupportedCurrencies {
		if r, ok := all[c]; ok {
			rates.Rates[c] = r.Round(rateScale)
		}
	}
	rates.Rates[BaseCurrency] = decimal.NewFromInt(1)
	return rates
}

func normalize(currency string) string {
	return strings.ToLower(strings.TrimSpace(currency))
}
