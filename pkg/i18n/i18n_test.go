package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)

	data := map[string]interface{}{"Field": "sku"}

	t.Run("english", func(t *testing.T) {
		assert.Equal(t, "sku is required", tr.Translate("en-US", "required_field", data, "fallback"))
	})

	t.Run("indonesian", func(t *testing.T) {
		assert.Equal(t, "sku wajib diisi", tr.Translate("id", "required_field", data, "fallback"))
	})

	t.Run("unsupported language falls back to english", func(t *testing.T) {
		assert.Equal(t, "sku is required", tr.Translate("fr", "required_field", data, "fallback"))
	})

	t.Run("unknown id returns fallback", func(t *testing.T) {
		assert.Equal(t, "fallback", tr.Translate("en", "no_such_message", nil, "fallback"))
	})
}
