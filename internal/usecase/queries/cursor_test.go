//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAfterCursorRoundTrip(t *testing.T) {
	id := uuid.New()
	// sub-microsecond precision is dropped on encode
	ts := time.Date(2026, 3, 1, 9, 30, 0, 123456000, time.UTC)

	encoded := queries.EncodeAfterCursor(ts, id)
	decodedTime, decodedID, err := queries.DecodeAfterCursor(encoded)

	require.NoError(t, err)
	assert.Equal(t, id, decodedID)
	assert.Equal(t, ts.UnixMicro(), decodedTime.UnixMicro())
}

func TestDecodeAfterCursor(t *testing.T) {
	testCases := []struct {
		name   string
		cursor string
	}{
		{name: "empty cursor", cursor: ""},
		{name: "not base64", cursor: "!!!not-base64!!!"},
		{name: "unsupported version", cursor: base64.URLEncoding.EncodeToString([]byte("v2:123-" + uuid.New().String()))},
		{name: "missing separator", cursor: base64.URLEncoding.EncodeToString([]byte("v1:123456789"))},
		{name: "non numeric timestamp", cursor: base64.URLEncoding.EncodeToString([]byte("v1:abc-" + uuid.New().String()))},
		{name: "malformed uuid", cursor: base64.URLEncoding.EncodeToString([]byte("v1:123-not-a-uuid"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := queries.DecodeAfterCursor(tc.cursor)
			assert.Error(t, err)
		})
	}
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultLimit, queries.ValidateLimit(-5))
	assert.Equal(t, 30, queries.ValidateLimit(30))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit+1))
}
