package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestFileLogger_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	closer, logger, err := FileLogger(logrus.InfoLevel, FileOptions{Path: path, MaxSizeMB: 1, MaxBackups: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	logger.WithField("component", "test").Info("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"component":"test"`)
	require.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
