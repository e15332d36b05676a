package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// PercentOf 计算 amount 的 percent%，全程十进制运算，不经过浮点
func PercentOf(amount decimal.Decimal, percent int64) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(percent).Div(hundred))
}

// TaxFee 按税率百分比计算税费
func TaxFee(price decimal.Decimal, ratePercent int) decimal.Decimal {
	return PercentOf(price, int64(ratePercent))
}

// ToMinorUnits 转换为最小货币单位（分），超出两位的小数四舍五入
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromMinorUnits ToMinorUnits 的逆运算
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

// Money 对外展示统一保留两位小数
func Money(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
