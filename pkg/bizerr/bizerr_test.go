package bizerr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:     http.StatusNotFound,
		KindValidation:   http.StatusBadRequest,
		KindProvider:     http.StatusBadGateway,
		KindConflict:     http.StatusConflict,
		KindUnauthorized: http.StatusUnauthorized,
		KindForbidden:    http.StatusForbidden,
		KindInternal:     http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus())
	}
}

func TestAsThroughWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("verify session: %w", Provider(40001, cause, "stripe error"))

	be, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, KindProvider, be.Kind)
	assert.Equal(t, 40001, be.Code)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "stripe error: connection reset", be.Error())
	assert.True(t, IsKind(err, KindProvider))
	assert.False(t, IsKind(errors.New("plain"), KindProvider))
}
