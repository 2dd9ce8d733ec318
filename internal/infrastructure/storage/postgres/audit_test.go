package postgres

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_Encoding(t *testing.T) {
	s, err := NewAuditService(nil)
	require.NoError(t, err)

	t.Run("small payload stays plain", func(t *testing.T) {
		payload := []byte(`{"totalAmount":"12.50"}`)
		plain, compressed, algo := s.encode(payload)

		assert.Equal(t, CompressionNone, algo)
		assert.Equal(t, payload, plain)
		assert.Nil(t, compressed)

		out, err := s.decode(plain, compressed, algo)
		require.NoError(t, err)
		assert.Equal(t, payload, out)
	})

	t.Run("large payload is compressed", func(t *testing.T) {
		payload := bytes.Repeat([]byte(`{"ref":"x","delta":1},`), 2000)
		plain, compressed, algo := s.encode(payload)

		assert.Equal(t, CompressionZstd, algo)
		assert.Nil(t, plain)
		assert.Less(t, len(compressed), len(payload))

		out, err := s.decode(plain, compressed, algo)
		require.NoError(t, err)
		assert.Equal(t, payload, out)
	})
}
