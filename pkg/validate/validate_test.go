package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type priceInput struct {
	Price decimal.Decimal `validate:"money"`
}

type couponInput struct {
	Code string `validate:"coupon_code"`
}

func TestMoney(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	assert.NoError(t, v.Struct(priceInput{Price: decimal.RequireFromString("19.99")}))
	assert.NoError(t, v.Struct(priceInput{Price: decimal.Zero}))
	assert.Error(t, v.Struct(priceInput{Price: decimal.RequireFromString("-1")}))
	assert.Error(t, v.Struct(priceInput{Price: decimal.RequireFromString("1.999")}))
}

func TestCouponCode(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	assert.NoError(t, v.Struct(couponInput{Code: "SAVE20"}))
	assert.Error(t, v.Struct(couponInput{Code: "x"}))
	assert.Error(t, v.Struct(couponInput{Code: "SAVE 20"}))
}

func TestRegisterOnGinEngine(t *testing.T) {
	assert.NoError(t, Register())
	assert.NoError(t, Register())
}
