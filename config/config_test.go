package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func resetFlags(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	oldFlag := flag.CommandLine
	t.Cleanup(func() {
		os.Args = oldArgs
		flag.CommandLine = oldFlag
	})
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = append([]string{"cmd"}, args...)
}

func validBase() *Config {
	return &Config{
		LogLevel:          "info",
		ContentReadMode:   "auto",
		MaxOutputFileSize: 1,
	}
}

func TestParseCommaSeparated(t *testing.T) {
	res := parseCommaSeparated("a,b , c")
	if len(res) != 3 || res[1] != "b" {
		t.Fatalf("unexpected result: %v", res)
	}
	if res := parseCommaSeparated(""); len(res) != 0 {
		t.Fatalf("expected empty slice")
	}
}

func TestParseHeaders(t *testing.T) {
	headers := parseHeaders("Authorization=Bearer x, Env=prod,, bad-entry")
	if headers["Authorization"] != "Bearer x" || headers["Env"] != "prod" {
		t.Fatalf("unexpected headers: %v", headers)
	}
	if len(headers) != 2 {
		t.Fatalf("malformed entries should be dropped: %v", headers)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	content := `{"path":"/data","recursive":true,"detect_mime":false,"hash_algorithms":["md5"]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := &Config{DetectMime: true}
	if err := cfg.loadFromFile(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Path != "/data" || !cfg.Recursive || cfg.DetectMime {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.HashAlgorithms) != 1 || cfg.HashAlgorithms[0] != "md5" {
		t.Fatalf("unexpected hashes: %v", cfg.HashAlgorithms)
	}

	if err := cfg.loadFromFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	cfg := validBase()
	if err := cfg.validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}

	cfg = validBase()
	cfg.LogLevel = "loud"
	if err := cfg.validate(); err == nil {
		t.Fatal("expected invalid log level")
	}

	cfg = validBase()
	cfg.ContentReadMode = "psychic"
	if err := cfg.validate(); err == nil {
		t.Fatal("expected invalid content-read-mode")
	}

	cfg = validBase()
	cfg.MaxFileSize = -1
	if err := cfg.validate(); err == nil {
		t.Fatal("expected negative max-file-size rejection")
	}

	cfg = validBase()
	cfg.MaxFilesPerSecond = -5
	if err := cfg.validate(); err == nil {
		t.Fatal("expected negative throttle rejection")
	}

	cfg = validBase()
	cfg.MaxOutputFileSize = 0
	if err := cfg.validate(); err == nil {
		t.Fatal("expected zero output size rejection")
	}

	cfg = validBase()
	cfg.OtelEndpoint = "otel.example.com"
	if err := cfg.validate(); err == nil {
		t.Fatal("expected schemeless otel endpoint rejection")
	}
}

func TestShortFlagAliases(t *testing.T) {
	resetFlags(t, "-j", "-r", "-o", "-s", "-S", "sigs.json", "/data")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.JSONOutput || !cfg.Recursive || !cfg.Organize || !cfg.Sequential {
		t.Fatalf("short aliases not applied: %+v", cfg)
	}
	if cfg.SignaturesFile != "sigs.json" {
		t.Fatalf("signatures file: %q", cfg.SignaturesFile)
	}
	if cfg.Path != "/data" {
		t.Fatalf("positional path: %q", cfg.Path)
	}
}

func TestPositionalPathWinsOverFlag(t *testing.T) {
	resetFlags(t, "--path", "/from-flag", "/from-arg")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Path != "/from-arg" {
		t.Fatalf("expected positional to win, got %q", cfg.Path)
	}
}

func TestDefaults(t *testing.T) {
	resetFlags(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.ContentReadMode != "auto" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.DetectMime || !cfg.ContentHints || !cfg.CollectTimes {
		t.Fatalf("annotation defaults changed: %+v", cfg)
	}
	if cfg.JSONOutput || cfg.Recursive || cfg.Organize || cfg.Sequential {
		t.Fatalf("mode defaults changed: %+v", cfg)
	}
	if cfg.MaxOutputFileSize != 104857600 {
		t.Fatalf("rotation default: %d", cfg.MaxOutputFileSize)
	}
	if len(cfg.HashAlgorithms) != 0 || cfg.FuzzyHash {
		t.Fatalf("digests should default off: %+v", cfg)
	}
}

func TestFuzzyHashFlagDefaultsAlgorithm(t *testing.T) {
	resetFlags(t, "--fuzzy-hash")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.FuzzyHash {
		t.Fatal("expected fuzzy hash enabled")
	}
	if len(cfg.FuzzyAlgorithms) == 0 || cfg.FuzzyAlgorithms[0] != "tlsh" {
		t.Fatalf("expected tlsh default, got %v", cfg.FuzzyAlgorithms)
	}
}

func TestFlagOverridesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	content := `{"log_level":"debug","recursive":true,"organize":true}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	resetFlags(t, "--config", path, "--log-level", "error")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("flag should override file, got %q", cfg.LogLevel)
	}
	if !cfg.Recursive || !cfg.Organize {
		t.Fatalf("file values lost: %+v", cfg)
	}
}

func TestOtelFlags(t *testing.T) {
	resetFlags(t,
		"--otel-endpoint", "https://otel.example.com/v1/logs",
		"--otel-export-paths",
		"--otel-headers", "Authorization=Bearer test,Env=prod",
		"--otel-service-name", "ftanalyzer-ci",
		"--otel-timeout", "10s",
	)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OtelEndpoint != "https://otel.example.com/v1/logs" {
		t.Fatalf("unexpected otel endpoint: %s", cfg.OtelEndpoint)
	}
	if cfg.OtelServiceName != "ftanalyzer-ci" {
		t.Fatalf("unexpected otel service name: %s", cfg.OtelServiceName)
	}
	if cfg.OtelTimeout != 10*time.Second {
		t.Fatalf("unexpected otel timeout: %v", cfg.OtelTimeout)
	}
	if !cfg.OtelExportPaths {
		t.Fatal("expected otel path export enabled")
	}
	if cfg.OtelHeaders["Authorization"] != "Bearer test" || cfg.OtelHeaders["Env"] != "prod" {
		t.Fatalf("unexpected otel headers: %v", cfg.OtelHeaders)
	}
}
