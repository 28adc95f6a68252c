package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "taskbox/pkg/domain-errors"
)

func TestParseUserID(t *testing.T) {
	t.Run("valid uuid round-trips", func(t *testing.T) {
		original := NewUserID()
		parsed, err := ParseUserID(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("empty string rejected", func(t *testing.T) {
		_, err := ParseUserID("")
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("malformed string rejected", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("nil uuid rejected", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func TestParseTodoID(t *testing.T) {
	original := NewTodoID()
	parsed, err := ParseTodoID(original.String())
	require.NoError(t, err)
	assert.Equal(t, original, parsed)

	_, err = ParseTodoID("1234")
	require.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestIsNil(t *testing.T) {
	assert.True(t, UserID{}.IsNil())
	assert.False(t, NewUserID().IsNil())
	assert.True(t, TodoID{}.IsNil())
	assert.False(t, NewTodoID().IsNil())
}
