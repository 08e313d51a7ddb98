package calculator

import "github.com/mmynk/splitty/internal/money"

// SplitEvenly divides amount into n equal shares.
//
// Each share is rounded half-up to 8 fractional digits, so share*n can differ from
// amount by a few units of 10⁻⁸. That difference is returned as residual
// (amount - share*n); it is not redistributed and stays with whoever paid.
// n must be at least 1.
func SplitEvenly(amount money.Money, n int) (share money.Money, residual money.Money) {
	share = amount.DivRound(int64(n))
	residual = amount.Sub(share.Mul(int64(n)))
	return share, residual
}
