package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyr-protocol/zephyr-go/pkg/subscription"
)

const sample = `# personal subscriptions
realm: ATHENA.MIT.EDU
defaults: true
state_dir: /var/lib/zsubs
protocol_log: zsubs.zlog
subscriptions:
  - class: message
    instance: personal
    recipient: "*"
  - "help,*,*"
  - " white , space , jdoe@EXAMPLE.COM "
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "ATHENA.MIT.EDU", f.Realm)
	assert.True(t, f.Defaults)
	assert.Equal(t, "/var/lib/zsubs", f.StateDir)
	assert.Equal(t, "zsubs.zlog", f.ProtocolLog)

	require.Len(t, f.Subscriptions, 3)
	assert.Equal(t, subscription.Key{Class: "message", Instance: "personal", Recipient: "*"}, f.Subscriptions[0].Key)
	assert.Equal(t, 7, f.Subscriptions[0].Line)
	assert.Equal(t, subscription.Key{Class: "help", Instance: "*", Recipient: "*"}, f.Subscriptions[1].Key)
	assert.Equal(t, 10, f.Subscriptions[1].Line)
	assert.Equal(t, subscription.Key{Class: "white", Instance: "space", Recipient: "jdoe@EXAMPLE.COM"}, f.Subscriptions[2].Key)

	assert.Equal(t, []subscription.Key{
		f.Subscriptions[0].Key, f.Subscriptions[1].Key, f.Subscriptions[2].Key,
	}, f.Keys())
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, f.Subscriptions)
	assert.Empty(t, f.Keys())
	assert.False(t, f.Defaults)
}

func TestParseEmptyFields(t *testing.T) {
	f, err := Parse([]byte(`subscriptions:
  - class: ""
    instance: ""
    recipient: ""
`))
	require.NoError(t, err)
	require.Len(t, f.Subscriptions, 1)
	assert.Equal(t, subscription.Key{}, f.Subscriptions[0].Key)
}

func TestParseInvalidEntries(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		line int
	}{
		{"too few fields", "subscriptions:\n  - \"a,b\"\n", 2},
		{"too many fields", "subscriptions:\n  - \"a,b,c,d\"\n", 2},
		{"missing recipient", "subscriptions:\n  - class: a\n    instance: b\n", 2},
		{"sequence entry", "subscriptions:\n  - [a, b, c]\n", 2},
		{"bad field type", "subscriptions:\n  - \"a,b,c\"\n  - class: [x]\n    instance: b\n    recipient: c\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.ErrorIs(t, err, subscription.ErrInvalidKey)

			var le *LoadError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.line, le.Line)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("subscriptions: [\n"))
	require.Error(t, err)

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "failed to parse YAML", le.Message)
	assert.NotErrorIs(t, err, subscription.ErrInvalidKey)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".zsubs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Subscriptions, 3)
}

func TestLoadErrorsCarryPath(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("subscriptions:\n  - \"a,b\"\n"), 0644))

	_, err = Load(path)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), path+":2: "), err.Error())
	assert.ErrorIs(t, err, subscription.ErrInvalidKey)
}

func TestLoadErrorFormat(t *testing.T) {
	assert.Equal(t, "<input>: failed", (&LoadError{Message: "failed"}).Error())
	assert.Equal(t, "f.yaml:3: bad: cause", (&LoadError{File: "f.yaml", Line: 3, Message: "bad", Cause: errors.New("cause")}).Error())
}
