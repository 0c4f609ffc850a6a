package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := "# local pika\n" +
		"backend pika\n" +
		"host 10.0.0.7\n" +
		"port 9221\n" +
		"password\tsecret\n" +
		"dialTimeout 2s\n" +
		"ioTimeout 500\n" +
		"db 3"
	p, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "pika", p.Backend)
	assert.Equal(t, "10.0.0.7:9221", p.Addr())
	assert.Equal(t, "secret", p.Password)
	assert.Equal(t, 3, p.DB)
	assert.Equal(t, 2*time.Second, p.DialTimeout)
	assert.Equal(t, 500*time.Millisecond, p.IOTimeout)
	assert.Equal(t, "info", p.LogLevel)

	_, err = Parse(strings.NewReader("port many"))
	assert.Error(t, err)
}

func TestLoadWithEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nosql.conf")
	require.NoError(t, os.WriteFile(path, []byte("host 10.0.0.7\nport 7000\n"), 0644))
	t.Setenv("NOSQL_PORT", "7001")
	t.Setenv("NOSQL_BACKEND", "dynomite")

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", p.Host)
	assert.Equal(t, 7001, p.Port)
	assert.Equal(t, "dynomite", p.Backend)

	t.Setenv("NOSQL_PORT", "not-an-int")
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoadRejectsBackend(t *testing.T) {
	t.Setenv("NOSQL_BACKEND", "memcached")
	_, err := Load(filepath.Join(t.TempDir(), "missing.conf"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "nosql.conf")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	_, err = Load(path)
	assert.Error(t, err)
}
