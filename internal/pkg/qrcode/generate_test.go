package qrcode

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePaymentQR(t *testing.T) {
	data, err := GeneratePaymentQR("TXYZabc123", 25.50, "pay-001")
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// PNG 魔数
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestGeneratePaymentQR_Deterministic(t *testing.T) {
	a, err := GeneratePaymentQR("TXYZabc123", 10, "pay-002")
	require.NoError(t, err)
	b, err := GeneratePaymentQR("TXYZabc123", 10, "pay-002")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
