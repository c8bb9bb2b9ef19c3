package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONEnOutputConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("descartado")
	assert.Zero(t, buf.Len(), "info no se escribe con nivel warn")

	c := l.Component("stock")
	c.Warn().Str("invoice_id", "inv-1").Msg("compensación")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "stock", line["component"])
	assert.Equal(t, "inv-1", line["invoice_id"])
	assert.Equal(t, "compensación", line["message"])
}

func TestParseLevel_DefaultInfo(t *testing.T) {
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("ruido").String())
	assert.Equal(t, "debug", parseLevel("debug").String())
}
