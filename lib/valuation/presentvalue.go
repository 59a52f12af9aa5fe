// Package valuation prices tokens. It holds no state and never touches storage.
package valuation

import (
	"math"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/common"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/shopspring/decimal"
)

var (
	scale    = decimal.NewFromInt(common.PresentValueScale)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// CurrentValue discounts the face value linearly by the remaining time to
// maturity:
//
//	face_value - floor(face_value * discount_rate * time_to_maturity / 10000)
//
// A matured token is worth its face value. All arithmetic is exact, so any
// int64 inputs are priced without overflow.
//
// Unlike the bare formula, the result never goes negative: once the discount
// reaches the face value the token is priced at 0. With discount_rate 100 and
// 300 ticks left a face value of 10000 would otherwise come out at -20000.
func CurrentValue(token models.Token, clock int64) int64 {
	timeToMaturity := timeToMaturity(token, clock)
	if timeToMaturity.IsZero() {
		return token.FaceValue
	}

	faceValue := decimal.NewFromInt(token.FaceValue)
	product := faceValue.
		Mul(decimal.NewFromInt(token.DiscountRate)).
		Mul(timeToMaturity)
	// the quotient is truncated toward zero; floor it for negative operands
	discount, remainder := product.QuoRem(scale, 0)
	if remainder.IsNegative() {
		discount = discount.Sub(decimal.NewFromInt(1))
	}

	if discount.GreaterThanOrEqual(faceValue) {
		return 0
	}
	value := faceValue.Sub(discount)
	if value.GreaterThan(maxInt64) {
		return math.MaxInt64
	}
	return value.IntPart()
}

// TimeToMaturity is max(0, maturity_date - clock), saturated at MaxInt64.
func TimeToMaturity(token models.Token, clock int64) int64 {
	ttm := timeToMaturity(token, clock)
	if ttm.GreaterThan(maxInt64) {
		return math.MaxInt64
	}
	return ttm.IntPart()
}

func timeToMaturity(token models.Token, clock int64) decimal.Decimal {
	if token.MaturityDate <= clock {
		return decimal.Zero
	}
	return decimal.NewFromInt(token.MaturityDate).Sub(decimal.NewFromInt(clock))
}
