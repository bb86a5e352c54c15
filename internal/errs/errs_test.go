package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("bid %d missing", 7)))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate pair")))
	assert.Equal(t, KindInvalidState, KindOf(InvalidState("listing is sold")))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain error")))
	assert.Equal(t, KindUnexpected, KindOf(Unexpected(errors.New("db down"), "query failed")))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("create payment: %w", Conflict("payment already exists"))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindNotFound))
}

func TestUnexpectedUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Unexpected(cause, "list listings")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "list listings")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestFromForeignKey(t *testing.T) {
	fk := &pq.Error{Code: "23503"}
	assert.Equal(t, KindInvalidReference, KindOf(FromForeignKey(fk, "user 9 does not exist")))

	dup := &pq.Error{Code: "23505"}
	assert.Equal(t, KindUnexpected, KindOf(FromForeignKey(dup, "user 9 does not exist")))

	assert.Equal(t, KindUnexpected, KindOf(FromForeignKey(errors.New("boom"), "user 9 does not exist")))
}

func TestFromUnique(t *testing.T) {
	dup := &pq.Error{Code: "23505"}
	assert.Equal(t, KindConflict, KindOf(FromUnique(dup, "already watching")))

	other := &pq.Error{Code: "23503"}
	assert.Equal(t, KindUnexpected, KindOf(FromUnique(other, "already watching")))

	assert.Equal(t, KindUnexpected, KindOf(FromUnique(errors.New("boom"), "already watching")))
}
