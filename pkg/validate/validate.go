// Package validate 注册 gin binding 使用的自定义校验规则
package validate

import (
	"errors"
	"reflect"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	couponCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,50}$`)

	once    sync.Once
	initErr error
)

// Register 注册 money / coupon_code 规则，可重复调用
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			initErr = errors.New("gin validator engine is not go-playground/validator")
			return
		}
		initErr = RegisterOn(v)
	})
	return initErr
}

// RegisterOn 在指定 validator 上注册
func RegisterOn(v *validator.Validate) error {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("money", validateMoney); err != nil {
		return err
	}
	return v.RegisterValidation("coupon_code", validateCouponCode)
}

// decimalValue 让 decimal.Decimal 以字符串参与校验
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// money: 非负金额，最多两位小数
func validateMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.Exponent() >= -2
}

func validateCouponCode(fl validator.FieldLevel) bool {
	return couponCodePattern.MatchString(fl.Field().String())
}
