package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func Test_LoggerSplitsByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	SetLoggerOutput(&out, &errOut, true)
	defer SetLoggerConsole(false)

	log.Info().Msg("progress " + C(1234))
	log.Warn().Msg("careful")
	log.Error().Msg("broken")

	require.Contains(t, out.String(), "progress 1,234")
	require.NotContains(t, out.String(), "careful")
	require.Contains(t, errOut.String(), "careful")
	require.Contains(t, errOut.String(), "broken")
	require.NotContains(t, errOut.String(), "progress")
}

func Test_SetLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	SetLoggerOutput(&out, &errOut, true)
	defer SetLoggerConsole(false)

	SetLevel(0)
	log.Debug().Msg("hidden")
	require.Empty(t, out.String())

	SetLevel(1)
	log.Debug().Msg("shown")
	require.Contains(t, out.String(), "shown")
	SetLevel(0)
}
