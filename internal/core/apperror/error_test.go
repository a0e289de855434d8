package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := NewValidation("name is required")
	assert.Equal(t, "INVALID_INPUT: name is required", err.Error())

	wrapped := NewStorage(fmt.Errorf("dial tcp: refused"))
	assert.Contains(t, wrapped.Error(), "STORAGE_ERROR")
	assert.Contains(t, wrapped.Error(), "dial tcp: refused")
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewTransaction("create sale", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestWithDetail(t *testing.T) {
	err := NewValidation("quantity must be positive").
		WithDetail("field", "quantity").
		WithDetail("value", -3)

	assert.Equal(t, "quantity", err.Details["field"])
	assert.Equal(t, -3, err.Details["value"])
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	inner := NewNotFound("product", "abc")
	outer := fmt.Errorf("lookup: %w", inner)

	appErr, ok := AsAppError(outer)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.True(t, IsNotFound(outer))
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{NewValidation("bad"), http.StatusBadRequest},
		{NewNotFound("sale", "x"), http.StatusNotFound},
		{NewInsufficientStock("p1", "counter", 5, 2), http.StatusUnprocessableEntity},
		{NewUnauthorized("invalid PIN"), http.StatusUnauthorized},
		{NewConflict("already open"), http.StatusConflict},
		{NewDuplicate("product", "sku", "KF-650"), http.StatusConflict},
		{NewTransaction("op", nil), http.StatusInternalServerError},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, GetHTTPStatus(tt.err))
	}
}

func TestNewInsufficientStock_Details(t *testing.T) {
	err := NewInsufficientStock("p1", "counter", 5, 2)

	assert.Equal(t, CodeInsufficientStock, err.Code)
	assert.Equal(t, "counter", err.Details["location"])
	assert.Equal(t, int64(5), err.Details["requested"])
	assert.Equal(t, int64(2), err.Details["available"])
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(NewConflict("x"), CodeConflict))
	assert.False(t, IsCode(NewConflict("x"), CodeDuplicate))
	assert.False(t, IsCode(nil, CodeConflict))
	assert.False(t, IsCode(fmt.Errorf("plain"), CodeConflict))
}
