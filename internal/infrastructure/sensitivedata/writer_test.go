package sensitivedata_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealguard-dev/mealguard/internal/infrastructure/sensitivedata"
)

func TestWriter_ScrubsLogRecords(t *testing.T) {
	var buf bytes.Buffer
	provider := sensitivedata.NewProvider()
	provider.Track("jwt-signing-secret-0123456789abcdef")

	logger := slog.New(slog.NewTextHandler(sensitivedata.NewWriter(&buf, provider), nil))
	logger.Info("auth configured", "secret", "jwt-signing-secret-0123456789abcdef")

	assert.Contains(t, buf.String(), "secret="+sensitivedata.Placeholder)
	assert.NotContains(t, buf.String(), "0123456789abcdef")
}

func TestWriter_PassThrough(t *testing.T) {
	var buf bytes.Buffer
	w := sensitivedata.NewWriter(&buf, nil)

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())
}

func TestWriter_ReportsInputLength(t *testing.T) {
	var buf bytes.Buffer
	provider := sensitivedata.NewProvider()
	provider.Track("abcd")

	n, err := sensitivedata.NewWriter(&buf, provider).Write([]byte("x=abcd"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "x="+sensitivedata.Placeholder, buf.String())
}
