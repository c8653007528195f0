package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesToFile(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetOutput(os.Stderr)
		logrus.SetLevel(logrus.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "newtab.log")
	closer, err := Setup(path, true)
	require.NoError(t, err)

	logrus.WithField("component", "test").Debug("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "component=test")
	assert.Contains(t, string(data), "msg=hello")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestSetupWithoutPathDiscards(t *testing.T) {
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	closer, err := Setup("", false)
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.False(t, logrus.IsLevelEnabled(logrus.DebugLevel))
}
