package config

import (
	"testing"

	"github.com/MeKo-Tech/idscan/internal/barcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1000, cfg.Decoder.MinWidth)
	assert.True(t, cfg.Decoder.TryHarder)
	assert.Equal(t, "us-east-1", cfg.Recognition.Region)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.True(t, cfg.Batch.ContinueOnError)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
		{"bad output format", func(c *Config) { c.Output.Format = "xml" }},
		{"zero min width", func(c *Config) { c.Decoder.MinWidth = 0 }},
		{"unknown barcode format", func(c *Config) { c.Decoder.Formats = []string{"upc"} }},
		{"port too low", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero upload size", func(c *Config) { c.Server.MaxUploadMB = 0 }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSec = 0 }},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateKnownFormats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decoder.Formats = []string{"pdf417", "qr"}
	assert.NoError(t, cfg.Validate())
}

func TestToPipelineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Decoder.MinWidth = 1500
	cfg.Decoder.Formats = []string{"pdf417", "bogus", "qr"}
	cfg.Batch.Workers = 7

	pc := cfg.ToPipelineConfig()
	assert.Equal(t, 1500, pc.Decode.MinWidth)
	assert.Equal(t, []barcode.Format{barcode.FormatPDF417, barcode.FormatQR}, pc.Decode.Formats)
	assert.True(t, pc.Decode.TryHarder)
	assert.Equal(t, 7, pc.Parallel.MaxWorkers)
	assert.Equal(t, "us-east-1", pc.Recognition.Region)
}

func TestToRecognitionConfigEnvFallback(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDENV")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secretenv")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg := DefaultConfig()
	rc := cfg.ToRecognitionConfig()
	assert.Equal(t, "AKIDENV", rc.AccessKeyID)
	assert.Equal(t, "secretenv", rc.SecretAccessKey)
	assert.Equal(t, "eu-west-1", rc.Region)
}

func TestToRecognitionConfigExplicitWins(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDENV")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secretenv")
	t.Setenv("AWS_REGION", "eu-west-1")

	cfg := DefaultConfig()
	cfg.Recognition.Region = "us-west-2"
	cfg.Recognition.AccessKeyID = "AKIDCFG"
	cfg.Recognition.SecretAccessKey = "secretcfg"

	rc := cfg.ToRecognitionConfig()
	assert.Equal(t, "AKIDCFG", rc.AccessKeyID)
	assert.Equal(t, "secretcfg", rc.SecretAccessKey)
	assert.Equal(t, "us-west-2", rc.Region)
}
