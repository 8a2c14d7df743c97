package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Bootstrap holds the process-level settings resolved before the DB is
// open: where the DB lives, and what address to listen on. Persisted
// application tunables (block_seconds, idle_cutoff_seconds, ...) live
// in the app_settings DB singleton per spec.md §3/§9. BlockSeconds and
// IdleCutoffSeconds are resolved here but are not written to that
// singleton; only the serve command's --block-seconds and
// --idle-cutoff-seconds flags update the stored values.
type Bootstrap struct {
	ListenAddr        string `yaml:"listenAddr"`
	DBPath            string `yaml:"dbPath"`
	BlockSeconds      int    `yaml:"blockSeconds"`
	IdleCutoffSeconds int    `yaml:"idleCutoffSeconds"`
	LogLevel          string `yaml:"logLevel"`
}

// DefaultBootstrap returns hardcoded fallbacks.
func DefaultBootstrap() Bootstrap {
	return Bootstrap{
		ListenAddr:        "localhost:17600",
		DBPath:            "corehub.db",
		BlockSeconds:      2700,
		IdleCutoffSeconds: 300,
		LogLevel:          "info",
	}
}

// LoadFile merges an optional YAML file on top of b, returning the result.
// A missing file is not an error; a malformed one is.
func (b Bootstrap) LoadFile(path string) (Bootstrap, error) {
	if strings.TrimSpace(path) == "" {
		return b, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return b, err
	}
	out := b
	if err := yaml.Unmarshal(data, &out); err != nil {
		return b, err
	}
	return out, nil
}

// LoadEnv merges environment variables on top of b. The serve command
// applies its CLI flags after this, so a flag overrides the variable.
func (b Bootstrap) LoadEnv() Bootstrap {
	out := b
	out.ListenAddr = ParseString("COREHUB_LISTEN", out.ListenAddr)
	out.DBPath = ParseString("COREHUB_DB", out.DBPath)
	out.BlockSeconds = ParseInt("COREHUB_BLOCK_SECONDS", out.BlockSeconds)
	out.IdleCutoffSeconds = ParseInt("COREHUB_IDLE_CUTOFF_SECONDS", out.IdleCutoffSeconds)
	out.LogLevel = ParseString("COREHUB_LOG_LEVEL", out.LogLevel)
	return out
}

// NormalizeListenAddr implements the CLI's --listen grammar (spec.md §6):
// "ip:port", bare "ip" (default port 17600), "localhost", or "localhost:<port>".
func NormalizeListenAddr(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "localhost:17600"
	}
	if strings.Contains(raw, ":") {
		// Already host:port (or [ipv6]:port) — but guard against a bare
		// trailing colon or a non-numeric suffix that isn't really a port.
		host, port, err := splitHostPort(raw)
		if err == nil {
			if port == "" {
				port = "17600"
			}
			return host + ":" + port
		}
	}
	return raw + ":17600"
}

func splitHostPort(raw string) (host, port string, err error) {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return raw, "", nil
	}
	host = raw[:idx]
	port = raw[idx+1:]
	if port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return "", "", err
		}
	}
	return host, port, nil
}
