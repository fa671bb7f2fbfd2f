package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"

	"github.com/anirudhraja/protoscan/fieldpath"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "protoscan.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := writeConfig(t, `
log_level = "debug"
schema_dirs = ["protos"]

[paths]
chat_text = "2[1].1"

[[rules]]
kind = "CHAT"
path = "chat_text"

[[rules]]
kind = "NOTE"
template = "sent audio note"

[dump]
max_depth = 4
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, []string{"protos"}, cfg.SchemaDirs)
	require.Equal(t, 4, cfg.Dump.MaxDepth)
	require.Len(t, cfg.Rules, 2)

	rules, err := cfg.DigestRules()
	require.NoError(t, err)
	require.Equal(t, "2[1].1[1]", rules[0].Path.String())
	require.Empty(t, rules[1].Path)
	require.Equal(t, "sent audio note", rules[1].Template)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg, err := Load(writeConfig(t, `log_json = true`))
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 16, cfg.Dump.MaxDepth)
	require.NotNil(t, cfg.Paths)
	require.True(t, cfg.LogJSON)
}

func TestLoadNegativeDepth(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[dump]\nmax_depth = -1\n"))
	require.NoError(t, err)
	require.Equal(t, -1, cfg.Dump.MaxDepth)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	cfg, err := Load(writeConfig(t, `log_level = "debug"`))
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogLevel)

	require.Equal(t, "warn", Default().LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad alias", "[paths]\nx = \"1..2\"\n", `path alias "x" invalid`},
		{"rule without kind", "[[rules]]\npath = \"1\"\n", "rule[0] invalid: kind is required"},
		{"empty rule", "[[rules]]\nkind = \"A\"\n", "path or template is required"},
		{"bad rule path", "[[rules]]\nkind = \"A\"\npath = \"0\"\n", "rule[0] invalid"},
		{"unknown key", "colour = \"red\"\n", "unknown key"},
		{"syntax", "log_level = \n", "config parse failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorContains(t, err, "config load failed")
}

func TestResolvePath(t *testing.T) {
	cfg := Default()
	cfg.Paths["text"] = "2.1"

	p, err := cfg.ResolvePath("text")
	require.NoError(t, err)
	require.Equal(t, fieldpath.MustParse("2.1"), p)

	p, err = cfg.ResolvePath("5[2]")
	require.NoError(t, err)
	require.Equal(t, "5[2]", p.String())

	_, err = cfg.ResolvePath("nope")
	require.ErrorIs(t, err, fieldpath.ErrInvalidPath)
}

func TestEncode(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	cfg := Default()
	cfg.Paths["text"] = "2.1"
	cfg.Rules = []RuleConfig{{Kind: "CHAT", Path: "text"}}

	data, err := cfg.Encode()
	require.NoError(t, err)

	var back Config
	_, err = toml.Decode(string(data), &back)
	require.NoError(t, err)
	require.Equal(t, cfg.Paths, back.Paths)
	require.Equal(t, cfg.Rules, back.Rules)
	require.Equal(t, 16, back.Dump.MaxDepth)
}
