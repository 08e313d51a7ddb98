// Package money provides Money, a signed fixed-point amount in the ledger's base unit.
//
// Amounts are stored as an int64 count of 10⁻⁸ units, so addition, subtraction and
// comparison are exact. Operations that can produce more than 8 fractional digits
// (division, rate multiplication, parsing) round half-up, where a half is rounded away
// from zero. Binary floating point is never involved.
//
// The representable range is ±92,233,720,368.54775807.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept by Money.
const Scale = 8

// unitsPerWhole is 10^Scale.
const unitsPerWhole int64 = 100_000_000

var (
	// ErrInvalidAmount is returned when a value cannot be read as Money.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrOverflow is returned when a result does not fit the representable range.
	ErrOverflow = errors.New("amount out of range")
)

var (
	maxUnits = big.NewInt(math.MaxInt64)
	minUnits = big.NewInt(math.MinInt64)
)

// Money is an exact amount with 8 fractional digits. The zero value is 0.
type Money struct {
	units int64
}

// Zero is the zero amount.
var Zero = Money{}

// MaxAmount is the largest amount a single ledger entry may carry.
var MaxAmount = New(1_000_000_000, 0)

// FromUnits returns the Money holding the given number of 10⁻⁸ units.
func FromUnits(units int64) Money {
	return Money{units: units}
}

// New returns whole + frac/10⁸, e.g. New(10, 50_000_000) is 10.5.
func New(whole int64, frac int64) Money {
	return Money{units: whole*unitsPerWhole + frac}
}

// Parse reads a decimal string such as "12.50" or "-0.00000001".
// Digits beyond the 8th fractional place are rounded half-up.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal converts d, rounding half-up to 8 fractional digits.
func FromDecimal(d decimal.Decimal) (Money, error) {
	units := d.Round(Scale).Shift(Scale).BigInt()
	if units.Cmp(maxUnits) > 0 || units.Cmp(minUnits) < 0 {
		return Zero, fmt.Errorf("%w: %s", ErrOverflow, d.String())
	}
	return Money{units: units.Int64()}, nil
}

// Units returns the amount as a count of 10⁻⁸ units.
func (m Money) Units() int64 {
	return m.units
}

// Decimal returns m as a decimal.Decimal with exponent -8.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.units, -Scale)
}

// String formats m without trailing zeros, e.g. "20", "3.33333333", "-0.5".
func (m Money) String() string {
	return m.Decimal().String()
}

// StringFixed formats m with exactly places fractional digits, rounding half-up.
func (m Money) StringFixed(places int32) string {
	return m.Decimal().StringFixed(places)
}

func (m Money) Add(o Money) Money { return Money{units: m.units + o.units} }
func (m Money) Sub(o Money) Money { return Money{units: m.units - o.units} }
func (m Money) Neg() Money        { return Money{units: -m.units} }

// AddChecked returns m + o, or ErrOverflow when the sum leaves the representable range.
func (m Money) AddChecked(o Money) (Money, error) {
	sum := m.units + o.units
	if (o.units > 0 && sum < m.units) || (o.units < 0 && sum > m.units) {
		return Zero, fmt.Errorf("%w: %s + %s", ErrOverflow, m, o)
	}
	return Money{units: sum}, nil
}

// Mul returns m multiplied by an integer factor.
func (m Money) Mul(n int64) Money {
	return Money{units: m.units * n}
}

// Abs returns the magnitude of m.
func (m Money) Abs() Money {
	if m.units < 0 {
		return m.Neg()
	}
	return m
}

// DivRound divides m into n equal parts and rounds the quotient half-up to 8 digits.
// It panics if n is not positive, like integer division by zero.
func (m Money) DivRound(n int64) Money {
	if n <= 0 {
		panic(fmt.Sprintf("money: division by non-positive count %d", n))
	}
	q := m.units / n
	r := m.units % n
	if r < 0 {
		r = -r
	}
	if 2*r >= n {
		if m.units < 0 {
			q--
		} else {
			q++
		}
	}
	return Money{units: q}
}

// MulRate multiplies m by an exchange rate and rounds half-up to 8 digits.
func (m Money) MulRate(rate decimal.Decimal) (Money, error) {
	return FromDecimal(m.Decimal().Mul(rate))
}

// Cmp returns -1, 0 or +1 as m is less than, equal to, or greater than o.
func (m Money) Cmp(o Money) int {
	switch {
	case m.units < o.units:
		return -1
	case m.units > o.units:
		return 1
	default:
		return 0
	}
}

// Sign returns -1, 0 or +1 according to the sign of m.
func (m Money) Sign() int {
	return m.Cmp(Zero)
}

func (m Money) IsZero() bool     { return m.units == 0 }
func (m Money) IsPositive() bool { return m.units > 0 }
func (m Money) IsNegative() bool { return m.units < 0 }

// Min returns the smaller of a and b.
func Min(a, b Money) Money {
	if a.units <= b.units {
		return a
	}
	return b
}

// Sum adds up amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarshalJSON encodes m as a JSON string so no precision is lost in clients.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a JSON string or a JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAmount, err)
		}
	} else {
		s = string(data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores m as TEXT so databases never see a float.
func (m Money) Value() (driver.Value, error) {
	return m.StringFixed(Scale), nil
}

// Scan reads a TEXT or INTEGER column written by Value.
func (m *Money) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		*m = New(v, 0)
		return nil
	case nil:
		*m = Zero
		return nil
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrInvalidAmount, src)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
