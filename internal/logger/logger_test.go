package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetupUnknownLevelFallsBackToInfo(t *testing.T) {
	Setup("verbose", "json")
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level = %s, want info", got)
	}
}

func TestSetupParsesLevelCaseInsensitively(t *testing.T) {
	Setup("WARN", "json")
	if got := zerolog.GlobalLevel(); got != zerolog.WarnLevel {
		t.Errorf("global level = %s, want warn", got)
	}
	Setup("info", "json")
}

func TestSetupTagsServiceName(t *testing.T) {
	var buf bytes.Buffer
	log := Setup("info", "json").Output(&buf)
	log.Info().Msg("ping")
	if !strings.Contains(buf.String(), `"service":"`+ServiceName+`"`) {
		t.Errorf("log line %q missing service field", buf.String())
	}
}
