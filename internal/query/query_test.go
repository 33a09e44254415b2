package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotConstructors(t *testing.T) {
	t.Run("pending has no data or error", func(t *testing.T) {
		q := Pending[[]string]()
		assert.Equal(t, StatusPending, q.Status)
		assert.Nil(t, q.Data)
		assert.Nil(t, q.Err)
		assert.False(t, q.Refetching)
	})

	t.Run("success carries data", func(t *testing.T) {
		q := Success([]string{"a", "b"})
		assert.Equal(t, StatusSuccess, q.Status)
		assert.Equal(t, []string{"a", "b"}, q.Data)
		assert.Nil(t, q.Err)
	})

	t.Run("failure carries the typed error", func(t *testing.T) {
		q := Failure[[]string](&TypedError{Message: "Unauthorized", Code: "401"})
		assert.Equal(t, StatusError, q.Status)
		assert.Equal(t, "Unauthorized", q.Err.Message)
		assert.Equal(t, "401", q.Err.Code)
	})

	t.Run("refetch keeps prior data and sets the flag", func(t *testing.T) {
		q := Refetch(Success([]int{1, 2, 3}))
		assert.Equal(t, StatusSuccess, q.Status)
		assert.True(t, q.Refetching)
		assert.Equal(t, []int{1, 2, 3}, q.Data)
	})
}

func TestTypedErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  TypedError
		want string
	}{
		{"message and code", TypedError{Message: "Unauthorized", Code: "401"}, "Unauthorized (401)"},
		{"message only", TypedError{Message: "connection refused"}, "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

type codedErr struct{ msg, code string }

func (e *codedErr) Error() string        { return fmt.Sprintf("%s (%s)", e.msg, e.code) }
func (e *codedErr) ErrorMessage() string { return e.msg }
func (e *codedErr) ErrorCode() string    { return e.code }

func TestAsTypedError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, AsTypedError(nil))
	})

	t.Run("typed error passes through", func(t *testing.T) {
		typed := &TypedError{Message: "boom", Code: "500"}
		assert.Same(t, typed, AsTypedError(typed))
	})

	t.Run("wrapped typed error is unwrapped", func(t *testing.T) {
		typed := &TypedError{Message: "boom"}
		assert.Same(t, typed, AsTypedError(fmt.Errorf("fetch failed: %w", typed)))
	})

	t.Run("coded error keeps its code and bare message", func(t *testing.T) {
		got := AsTypedError(&codedErr{msg: "Forbidden", code: "403"})
		assert.Equal(t, "Forbidden", got.Message)
		assert.Equal(t, "403", got.Code)
	})

	t.Run("plain error becomes a message without code", func(t *testing.T) {
		got := AsTypedError(errors.New("dial tcp: timeout"))
		assert.Equal(t, "dial tcp: timeout", got.Message)
		assert.Empty(t, got.Code)
	})
}
