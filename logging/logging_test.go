package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"debug":   logrus.DebugLevel,
		" WARN ":  logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"":        logrus.InfoLevel,
		"verbose": logrus.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestConfigureSwapsLogger(t *testing.T) {
	defer Configure(Options{})

	Configure(Options{Level: "debug", JSON: true})

	l := L()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestInitFromEnv(t *testing.T) {
	defer Configure(Options{})
	t.Setenv("IMAGESTEPS_LOG_LEVEL", "error")
	t.Setenv("IMAGESTEPS_LOG_JSON", "true")

	InitFromEnv()

	assert.Equal(t, logrus.ErrorLevel, L().GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, L().Formatter)
}
