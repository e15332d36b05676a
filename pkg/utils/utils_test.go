package utils

import (
	"testing"
	"course_mall/internal/pkg/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentOf(t *testing.T) {
	total := decimal.RequireFromString("100.00")
	assert.True(t, PercentOf(total, 20).Equal(decimal.RequireFromString("20")))

	odd := decimal.RequireFromString("33.33")
	assert.Equal(t, "4.9995", PercentOf(odd, 15).String())
	assert.True(t, PercentOf(total, 0).IsZero())
}

func TestTaxFee(t *testing.T) {
	price := decimal.RequireFromString("49.90")
	assert.Equal(t, "4.99", TaxFee(price, 10).StringFixed(2))
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(8000), ToMinorUnits(decimal.RequireFromString("80")))
	assert.Equal(t, int64(1999), ToMinorUnits(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(500), ToMinorUnits(decimal.RequireFromString("4.9995")))
	assert.Equal(t, "4.90", Money(decimal.RequireFromString("4.9")))
	assert.Equal(t, "19.99", Money(FromMinorUnits(1999)))
}

func TestTokenRoundTrip(t *testing.T) {
	config.GlobalConfig.JWT.Secret = "test-secret-test-secret-test-secret!"
	config.GlobalConfig.JWT.Expire = 1

	token, expireAt, err := GenerateToken("user-1", 2)
	require.NoError(t, err)
	require.NotNil(t, expireAt)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, 2, claims.Role)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}

func TestPagination(t *testing.T) {
	p := Pagination{Page: 0, Limit: 500}.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPageLimit, p.Limit)
	assert.Equal(t, 0, p.Offset())

	assert.Equal(t, DefaultPageLimit, Pagination{}.Normalize().Limit)
	assert.Equal(t, 40, Pagination{Page: 3, Limit: 20}.Offset())

	res := NewPageResult([]int{1, 2}, 25, Pagination{Page: 2, Limit: 10})
	assert.True(t, res.HasMore)
	res = NewPageResult([]int{1}, 21, Pagination{Page: 3, Limit: 10})
	assert.False(t, res.HasMore)

	keep, more := Pagination{Limit: 10}.Window(11)
	assert.Equal(t, 10, keep)
	assert.True(t, more)
	keep, more = Pagination{Limit: 10}.Window(4)
	assert.Equal(t, 4, keep)
	assert.False(t, more)
}

func TestOptionalID(t *testing.T) {
	for _, anon := range []string{"", "0", "null", "undefined", "  "} {
		assert.Nil(t, OptionalID(anon), anon)
	}
	id := OptionalID("u-1")
	require.NotNil(t, id)
	assert.Equal(t, "u-1", *id)
}
