package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Validation, KindOf(Invalid("bad")))
	assert.Equal(t, NotFound, KindOf(fmt.Errorf("wrapped: %w", Missing("gone"))))
	assert.Equal(t, Persistence, KindOf(errors.New("driver exploded")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", Forbidden("You are not authorized to delete this note"))

	assert.ErrorIs(t, err, ErrAuthorization)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := DB("database error", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Equal(t, "database error", MessageOf(err))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(Invalid("x")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(Missing("x")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(Forbidden("x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("x")))
}

func TestResultFrom(t *testing.T) {
	ok := From(42, nil, "done")
	assert.True(t, ok.Success)
	assert.False(t, ok.Error)
	assert.Equal(t, 42, ok.Data)
	assert.Equal(t, "done", ok.Message)

	failed := From(0, Invalid("At least one of title or description is required"), "done")
	assert.False(t, failed.Success)
	assert.True(t, failed.Error)
	assert.Equal(t, Validation, failed.Kind)
	assert.Equal(t, "At least one of title or description is required", failed.Message)
}
