package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxo7arena/fiscal-api/pkg/logger"
)

func TestNew_CampoServiceEmTodaLinha(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Env:    "production",
		Level:  "info",
		App:    "fiscal-api",
		Output: &buf,
	})

	log.Info().Str("acao", "nfce_enviar").Msg("despachado")

	var linha map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &linha))
	assert.Equal(t, "fiscal-api", linha["service"])
	assert.Equal(t, "nfce_enviar", linha["acao"])
	assert.Equal(t, "despachado", linha["message"])
	assert.NotEmpty(t, linha["time"])
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{
		Env:    "production",
		Level:  "warn",
		Output: &buf,
	})

	log.Info().Msg("não deve sair")
	assert.Zero(t, buf.Len())

	log.Error().Msg("deve sair")
	assert.Contains(t, buf.String(), "deve sair")
}
