package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewStderrConfig_NoStacktraceOnError(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		t.Run(format, func(t *testing.T) {
			cfg, err := WithDefault().WithLogFormat(format).Build()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			zapCfg := newStderrConfig(cfg, zapcore.InfoLevel)
			if !zapCfg.DisableStacktrace {
				t.Fatal("expected stack traces to be disabled")
			}

			path := filepath.Join(t.TempDir(), "out.log")
			zapCfg.OutputPaths = []string{path}
			logger, err := zapCfg.Build()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			logger.Warn("metadata recorded an error")
			logger.Error("session ended with error")
			_ = logger.Sync()

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("expected log output: %v", err)
			}
			out := string(content)
			if !strings.Contains(out, "session ended with error") {
				t.Fatalf("missing log entry: %s", out)
			}
			if strings.Contains(out, "stacktrace") || strings.Contains(out, "tRunner") {
				t.Errorf("expected no stack trace, got: %s", out)
			}
		})
	}
}
