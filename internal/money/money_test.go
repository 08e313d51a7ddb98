package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    int64
		wantErr bool
	}{
		{name: "integer", in: "30", want: 3_000_000_000},
		{name: "two decimals", in: "12.50", want: 1_250_000_000},
		{name: "smallest unit", in: "0.00000001", want: 1},
		{name: "negative", in: "-10.25", want: -1_025_000_000},
		{name: "ninth digit rounds up at half", in: "0.000000005", want: 1},
		{name: "ninth digit rounds down below half", in: "0.000000004", want: 0},
		{name: "negative half rounds away from zero", in: "-0.000000005", want: -1},
		{name: "garbage", in: "ten", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "overflow", in: "100000000000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Units())
		})
	}
}

func TestDivRound(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		n      int64
		want   string
	}{
		{name: "exact", amount: "30", n: 3, want: "10"},
		{name: "thirds round down", amount: "10", n: 3, want: "3.33333333"},
		{name: "two thirds round up", amount: "20", n: 3, want: "6.66666667"},
		{name: "half unit rounds up", amount: "0.00000001", n: 2, want: "0.00000001"},
		{name: "negative half rounds away from zero", amount: "-0.00000001", n: 2, want: "-0.00000001"},
		{name: "single part", amount: "7.12345678", n: 1, want: "7.12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MustParse(tt.amount).DivRound(tt.n)
			assert.Equal(t, MustParse(tt.want), got)
		})
	}
}

func TestDivRound_PanicsOnZeroCount(t *testing.T) {
	assert.Panics(t, func() { MustParse("1").DivRound(0) })
}

func TestArithmetic(t *testing.T) {
	a := MustParse("10")
	b := MustParse("3.33333333")

	assert.Equal(t, MustParse("6.66666667"), a.Sub(b))
	assert.Equal(t, MustParse("13.33333333"), a.Add(b))
	assert.Equal(t, MustParse("9.99999999"), b.Mul(3))
	assert.Equal(t, MustParse("-10"), a.Neg())
	assert.Equal(t, a, a.Neg().Abs())
	assert.Equal(t, b, Min(a, b))
	assert.Equal(t, MustParse("23.33333333"), Sum(a, a, b))
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, a.Neg().Sign())
	assert.True(t, Zero.IsZero())
	assert.True(t, b.IsPositive())
	assert.True(t, b.Neg().IsNegative())
}

func TestAddChecked(t *testing.T) {
	big := MustParse("60000000000")

	sum, err := big.AddChecked(MustParse("0.5"))
	require.NoError(t, err)
	assert.Equal(t, "60000000000.5", sum.String())

	_, err = big.AddChecked(big)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = big.Neg().AddChecked(big.Neg())
	assert.ErrorIs(t, err, ErrOverflow)

	sum, err = FromUnits(math.MaxInt64).AddChecked(FromUnits(math.MinInt64))
	require.NoError(t, err)
	assert.Equal(t, FromUnits(-1), sum)
}

func TestMulRate(t *testing.T) {
	got, err := MustParse("10").MulRate(decimal.RequireFromString("1.0823"))
	require.NoError(t, err)
	assert.Equal(t, "10.823", got.String())

	got, err = MustParse("0.00000003").MulRate(decimal.RequireFromString("0.5"))
	require.NoError(t, err)
	assert.Equal(t, FromUnits(2), got)
}

func TestString(t *testing.T) {
	assert.Equal(t, "20", MustParse("20.00").String())
	assert.Equal(t, "-0.5", MustParse("-0.50").String())
	assert.Equal(t, "3.33333334", FromUnits(333_333_334).String())
	assert.Equal(t, "20.00", MustParse("20").StringFixed(2))
}

func TestJSON(t *testing.T) {
	type payload struct {
		Amount Money `json:"amount"`
	}

	out, err := json.Marshal(payload{Amount: MustParse("3.33333333")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"3.33333333"}`, string(out))

	var fromString payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":"12.5"}`), &fromString))
	assert.Equal(t, MustParse("12.5"), fromString.Amount)

	var fromNumber payload
	require.NoError(t, json.Unmarshal([]byte(`{"amount":12.5}`), &fromNumber))
	assert.Equal(t, MustParse("12.5"), fromNumber.Amount)

	var bad payload
	assert.Error(t, json.Unmarshal([]byte(`{"amount":"abc"}`), &bad))
}

func TestValueAndScan(t *testing.T) {
	v, err := MustParse("12.5").Value()
	require.NoError(t, err)
	assert.Equal(t, "12.50000000", v)

	var m Money
	require.NoError(t, m.Scan("12.50000000"))
	assert.Equal(t, MustParse("12.5"), m)

	require.NoError(t, m.Scan([]byte("-1")))
	assert.Equal(t, MustParse("-1"), m)

	require.NoError(t, m.Scan(int64(4)))
	assert.Equal(t, MustParse("4"), m)

	assert.Error(t, m.Scan(4.5))
}
