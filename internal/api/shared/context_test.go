package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	id := NewTraceID()
	assert.Len(t, id, 32)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewTraceID())

	ctx = WithTraceID(ctx, id)
	assert.Equal(t, id, GetTraceID(ctx))

	bad := context.WithValue(context.Background(), TraceIDKey, 123)
	assert.Empty(t, GetTraceID(bad))
}

func TestValidTraceID(t *testing.T) {
	assert.True(t, ValidTraceID(NewTraceID()))
	assert.True(t, ValidTraceID("req-12345678"))
	assert.False(t, ValidTraceID("short"))
	assert.False(t, ValidTraceID("has spaces in it"))
	assert.False(t, ValidTraceID("newline\ninjection-attempt"))
}

func TestUserIDFromContext(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(WithUserID(context.Background(), uuid.Nil))
	assert.False(t, ok)

	id := uuid.New()
	got, ok := UserIDFromContext(WithUserID(context.Background(), id))
	assert.True(t, ok)
	assert.Equal(t, id, got)
}
