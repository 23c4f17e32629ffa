package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "plain text", input: "3 years backend engineer, Go and distributed systems"},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "  \n\t ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := NormalizeText(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsKind(err, KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, PayloadText, payload.Kind)
			assert.Equal(t, tt.input, payload.Content)
		})
	}
}

func TestNormalizeBinary(t *testing.T) {
	t.Run("plain text bytes become a text payload", func(t *testing.T) {
		payload, err := NormalizeBinary("text/plain", []byte("产品经理，3年经验"))
		require.NoError(t, err)
		assert.Equal(t, PayloadText, payload.Kind)
		assert.Equal(t, "产品经理，3年经验", payload.Content)
	})

	t.Run("image stays binary", func(t *testing.T) {
		data := []byte{0x89, 0x50, 0x4e, 0x47}
		payload, err := NormalizeBinary("image/png", data)
		require.NoError(t, err)
		assert.Equal(t, PayloadBinary, payload.Kind)
		assert.Equal(t, "image/png", payload.MIMEType)
		assert.Equal(t, data, payload.Data)
		assert.Empty(t, payload.Content)
	})

	t.Run("declared type outside the allow-list", func(t *testing.T) {
		_, err := NormalizeBinary("application/zip", []byte("PK"))
		require.Error(t, err)
		assert.True(t, IsKind(err, KindValidation))
		assert.Contains(t, err.Error(), "unsupported file type")
	})

	t.Run("empty bytes", func(t *testing.T) {
		_, err := NormalizeBinary("image/png", nil)
		require.Error(t, err)
		assert.True(t, IsKind(err, KindValidation))
	})

	t.Run("garbage pdf is a validation failure", func(t *testing.T) {
		_, err := NormalizeBinary("application/pdf", []byte("not a pdf at all"))
		require.Error(t, err)
		assert.True(t, IsKind(err, KindValidation))
	})
}
