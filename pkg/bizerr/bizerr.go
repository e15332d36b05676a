package bizerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误分类
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindProvider
	KindConflict
	KindUnauthorized
	KindForbidden
)

// HTTPStatus 分类对应的 HTTP 状态码
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindProvider:
		return http.StatusBadGateway
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error 业务错误，携带分类和业务码
type Error struct {
	Kind    Kind
	Code    int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New 创建业务错误
func New(kind Kind, code int, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Wrap 包装底层错误
func Wrap(kind Kind, code int, err error, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, cause: err}
}

func NotFound(code int, msg string) *Error {
	return New(KindNotFound, code, msg)
}

func Validation(code int, msg string) *Error {
	return New(KindValidation, code, msg)
}

// Provider 支付渠道等外部依赖出错
func Provider(code int, err error, msg string) *Error {
	return Wrap(KindProvider, code, err, msg)
}

// As 取出链路上的业务错误
func As(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsKind 判断错误分类
func IsKind(err error, kind Kind) bool {
	be, ok := As(err)
	return ok && be.Kind == kind
}
