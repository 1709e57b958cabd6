package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"ftanalyzer/version"
)

type Config struct {
	Path                  string            `json:"path"`
	Recursive             bool              `json:"recursive"`
	JSONOutput            bool              `json:"json_output"`
	Organize              bool              `json:"organize"`
	Sequential            bool              `json:"sequential"`
	SignaturesFile        string            `json:"signatures_file"`
	OutputFileName        string            `json:"output_file_name"`
	MaxOutputFileSize     int64             `json:"max_output_file_size"`
	LogLevel              string            `json:"log_level"`
	IncludePatterns       []string          `json:"include_patterns"`
	ExcludePatterns       []string          `json:"exclude_patterns"`
	MaxFileSize           int64             `json:"max_file_size"`
	MaxFilesPerSecond     int               `json:"max_files_per_second"`
	ContentReadMode       string            `json:"content_read_mode"`
	MmapMinSize           int64             `json:"mmap_min_size"`
	DetectMime            bool              `json:"detect_mime"`
	ContentHints          bool              `json:"content_hints"`
	CollectTimes          bool              `json:"collect_times"`
	CollectXattrs         bool              `json:"collect_xattrs"`
	XattrMaxValueSize     int               `json:"xattr_max_value_size"`
	HashAlgorithms        []string          `json:"hash_algorithms"`
	FuzzyHash             bool              `json:"fuzzy_hash"`
	FuzzyAlgorithms       []string          `json:"fuzzy_algorithms"`
	FuzzyMinSize          int64             `json:"fuzzy_min_size"`
	FuzzyMaxSize          int64             `json:"fuzzy_max_size"`
	ExtractMetadata       bool              `json:"extract_metadata"`
	MetadataMaxBytes      int64             `json:"metadata_max_bytes"`
	CollectSystemInfo     bool              `json:"collect_system_info"`
	CheckUpdates          bool              `json:"check_updates"`
	DiagSlowScanThreshold time.Duration     `json:"diag_slow_scan_threshold"`
	DiagDir               string            `json:"diag_dir"`
	DiagGoroutineLeak     bool              `json:"diag_goroutine_leak"`
	OtelEndpoint          string            `json:"otel_endpoint"`
	OtelFromEnv           bool              `json:"otel_from_env"`
	OtelHeaders           map[string]string `json:"otel_headers"`
	OtelServiceName       string            `json:"otel_service_name"`
	OtelTimeout           time.Duration     `json:"otel_timeout"`
	OtelExportPaths       bool              `json:"otel_export_paths"`
	TraceFlight           bool              `json:"trace_flight"`
	TraceFlightFile       string            `json:"trace_flight_file"`
	TraceFlightMaxBytes   uint64            `json:"trace_flight_max_bytes"`
	TraceFlightMinAge     time.Duration     `json:"trace_flight_min_age"`
	ConfigFile            string            `json:"config_file"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Recursive:         false,
		JSONOutput:        false,
		Organize:          false,
		Sequential:        false,
		OutputFileName:    "",
		MaxOutputFileSize: 104857600,
		LogLevel:          "info",
		MaxFileSize:       0,
		MaxFilesPerSecond: 0,
		ContentReadMode:   "auto",
		MmapMinSize:       128 * 1024,
		DetectMime:        true,
		ContentHints:      true,
		CollectTimes:      true,
		CollectXattrs:     true,
		XattrMaxValueSize: 1024,
		HashAlgorithms:    []string{},
		FuzzyAlgorithms:   []string{},
		FuzzyMinSize:      256,
		FuzzyMaxSize:      20 * 1024 * 1024,
		ExtractMetadata:   false,
		MetadataMaxBytes:  1 * 1024 * 1024,
		CollectSystemInfo: true,
		CheckUpdates:      false,
		DiagDir:           ".",
		OtelHeaders:       map[string]string{},
		OtelServiceName:   "ftanalyzer",
		OtelTimeout:       5 * time.Second,
		TraceFlightFile:   "trace-flight.out",
	}

	jsonOutput := flag.Bool("json", cfg.JSONOutput, "Output results as JSON to stdout.")
	flag.BoolVar(jsonOutput, "j", cfg.JSONOutput, "Shorthand for --json.")
	recursive := flag.Bool("recursive", cfg.Recursive, "Scan subdirectories.")
	flag.BoolVar(recursive, "r", cfg.Recursive, "Shorthand for --recursive.")
	organize := flag.Bool("organize", cfg.Organize, "Organize files into type-based folders.")
	flag.BoolVar(organize, "o", cfg.Organize, "Shorthand for --organize.")
	sequential := flag.Bool("sequential", cfg.Sequential, "Disable multi-threaded analysis.")
	flag.BoolVar(sequential, "s", cfg.Sequential, "Shorthand for --sequential.")
	signatures := flag.String("signatures", cfg.SignaturesFile, "Load custom signatures from a JSON file.")
	flag.StringVar(signatures, "S", cfg.SignaturesFile, "Shorthand for --signatures.")
	startPath := flag.String("path", cfg.Path, "Path to scan; a positional argument takes precedence.")
	output := flag.String("output", cfg.OutputFileName, "Write per-file records to this file as NDJSON (default: none).")
	maxOutputFileSize := flag.Int64("max-output-file-size", cfg.MaxOutputFileSize, fmt.Sprintf("Maximum output file size before rotation in bytes (default: %d).", cfg.MaxOutputFileSize))
	logLevel := flag.String("log-level", cfg.LogLevel, fmt.Sprintf("Log level: debug, info, warn, error, fatal, or panic (default: %s).", cfg.LogLevel))
	includes := flag.String("include", "", "Comma-separated list of include patterns (default: none).")
	excludes := flag.String("exclude", "", "Comma-separated list of exclude patterns (default: none).")
	maxFileSize := flag.Int64("max-file-size", cfg.MaxFileSize, "Skip files larger than this many bytes (default: 0, no limit).")
	maxFilesPerSecond := flag.Int("max-files-per-second", cfg.MaxFilesPerSecond, "Throttle analysis to this many files per second (default: 0, no throttle).")
	contentReadMode := flag.String("content-read-mode", cfg.ContentReadMode, "Sample read mode: auto, stream, or mmap (default: auto).")
	mmapMinSize := flag.Int64("mmap-min-size", cfg.MmapMinSize, "Minimum file size in bytes for the mmap read path (default: 131072).")
	detectMime := flag.Bool("detect-mime", cfg.DetectMime, fmt.Sprintf("Detect MIME type from the content sample (default: %t).", cfg.DetectMime))
	contentHints := flag.Bool("content-hints", cfg.ContentHints, fmt.Sprintf("Detect textual content markers such as shebangs (default: %t).", cfg.ContentHints))
	collectTimes := flag.Bool("collect-times", cfg.CollectTimes, fmt.Sprintf("Collect file timestamps (default: %t).", cfg.CollectTimes))
	collectXattrs := flag.Bool("collect-xattrs", cfg.CollectXattrs, fmt.Sprintf("Collect extended attributes (default: %t).", cfg.CollectXattrs))
	xattrMaxValueSize := flag.Int("xattr-max-value-size", cfg.XattrMaxValueSize, fmt.Sprintf("Max bytes of xattr values to capture (default: %d).", cfg.XattrMaxValueSize))
	hashes := flag.String("hashes", strings.Join(cfg.HashAlgorithms, ","), "Comma-separated list of hash algorithms to compute (default: none).")
	fuzzyHash := flag.Bool("fuzzy-hash", cfg.FuzzyHash, fmt.Sprintf("Enable fuzzy hashing (default: %t).", cfg.FuzzyHash))
	fuzzyAlgorithms := flag.String("fuzzy-algorithms", strings.Join(cfg.FuzzyAlgorithms, ","), "Comma-separated list of fuzzy hash algorithms (default: tlsh when fuzzy hashing enabled).")
	fuzzyMinSize := flag.Int64("fuzzy-min-size", cfg.FuzzyMinSize, fmt.Sprintf("Minimum file size in bytes for fuzzy hashing (default: %d).", cfg.FuzzyMinSize))
	fuzzyMaxSize := flag.Int64("fuzzy-max-size", cfg.FuzzyMaxSize, fmt.Sprintf("Maximum file size in bytes for fuzzy hashing (default: %d).", cfg.FuzzyMaxSize))
	extractMetadata := flag.Bool("extract-metadata", cfg.ExtractMetadata, fmt.Sprintf("Extract EXIF/PDF/Office document properties (default: %t).", cfg.ExtractMetadata))
	metadataMaxBytes := flag.Int64("metadata-max-bytes", cfg.MetadataMaxBytes, fmt.Sprintf("Maximum bytes metadata parsers may read per file (default: %d, 0 means unlimited).", cfg.MetadataMaxBytes))
	collectSystemInfo := flag.Bool("collect-system-info", cfg.CollectSystemInfo, fmt.Sprintf("Include host information in machine-readable output (default: %t).", cfg.CollectSystemInfo))
	checkUpdates := flag.Bool("check-updates", cfg.CheckUpdates, fmt.Sprintf("Check GitHub for a newer release at startup (default: %t).", cfg.CheckUpdates))
	diagSlowScanThreshold := flag.Duration("diag-slow-scan-threshold", cfg.DiagSlowScanThreshold, "If positive, emit diagnostics when analysis progress stalls for this duration (default: 0/off).")
	diagDir := flag.String("diag-dir", cfg.DiagDir, "Diagnostics output directory (default: current directory).")
	diagGoroutineLeak := flag.Bool("diag-goroutine-leak", cfg.DiagGoroutineLeak, "Dump a goroutine profile at exit for leak inspection (default: false).")
	otelEndpoint := flag.String("otel-endpoint", cfg.OtelEndpoint, "OTLP/HTTP logs endpoint (default: none).")
	otelFromEnv := flag.Bool("otel-from-env", cfg.OtelFromEnv, "Allow OTEL endpoint fallback from OTEL environment variables (default: false).")
	otelHeaders := flag.String("otel-headers", "", "Comma-separated OTEL headers (key=value) for export (default: none).")
	otelServiceName := flag.String("otel-service-name", cfg.OtelServiceName, fmt.Sprintf("OTEL service name for export (default: %s).", cfg.OtelServiceName))
	otelTimeout := flag.Duration("otel-timeout", cfg.OtelTimeout, "OTEL export timeout (default: 5s).")
	otelExportPaths := flag.Bool("otel-export-paths", cfg.OtelExportPaths, "Include raw file paths in OTEL payloads (default: false).")
	traceFlight := flag.Bool("trace-flight", cfg.TraceFlight, fmt.Sprintf("Enable flight recorder tracing (default: %t).", cfg.TraceFlight))
	traceFlightFile := flag.String("trace-flight-file", cfg.TraceFlightFile, fmt.Sprintf("Flight recorder output file (default: %s).", cfg.TraceFlightFile))
	traceFlightMaxBytes := flag.Uint64("trace-flight-max-bytes", cfg.TraceFlightMaxBytes, "Max bytes for flight recorder buffer (default: 0 for runtime default).")
	traceFlightMinAge := flag.Duration("trace-flight-min-age", cfg.TraceFlightMinAge, "Minimum age of trace events to retain (default: 0).")
	configFile := flag.String("config", "", "Path to JSON configuration file (default: none).")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = displayHelp
	flag.Parse()

	if *showVersion {
		fmt.Printf("FileTypeAnalyzer version %s\n", version.Version)
		os.Exit(0)
	}

	if *configFile != "" {
		cfg.ConfigFile = *configFile
		if err := cfg.loadFromFile(cfg.ConfigFile); err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "json", "j":
			cfg.JSONOutput = *jsonOutput
		case "recursive", "r":
			cfg.Recursive = *recursive
		case "organize", "o":
			cfg.Organize = *organize
		case "sequential", "s":
			cfg.Sequential = *sequential
		case "signatures", "S":
			cfg.SignaturesFile = *signatures
		case "path":
			cfg.Path = *startPath
		case "output":
			cfg.OutputFileName = *output
		case "max-output-file-size":
			cfg.MaxOutputFileSize = *maxOutputFileSize
		case "log-level":
			cfg.LogLevel = *logLevel
		case "include":
			cfg.IncludePatterns = parseCommaSeparated(*includes)
		case "exclude":
			cfg.ExcludePatterns = parseCommaSeparated(*excludes)
		case "max-file-size":
			cfg.MaxFileSize = *maxFileSize
		case "max-files-per-second":
			cfg.MaxFilesPerSecond = *maxFilesPerSecond
		case "content-read-mode":
			cfg.ContentReadMode = strings.ToLower(strings.TrimSpace(*contentReadMode))
		case "mmap-min-size":
			cfg.MmapMinSize = *mmapMinSize
		case "detect-mime":
			cfg.DetectMime = *detectMime
		case "content-hints":
			cfg.ContentHints = *contentHints
		case "collect-times":
			cfg.CollectTimes = *collectTimes
		case "collect-xattrs":
			cfg.CollectXattrs = *collectXattrs
		case "xattr-max-value-size":
			cfg.XattrMaxValueSize = *xattrMaxValueSize
		case "hashes":
			cfg.HashAlgorithms = parseCommaSeparated(*hashes)
		case "fuzzy-hash":
			cfg.FuzzyHash = *fuzzyHash
		case "fuzzy-algorithms":
			cfg.FuzzyAlgorithms = parseCommaSeparated(*fuzzyAlgorithms)
		case "fuzzy-min-size":
			cfg.FuzzyMinSize = *fuzzyMinSize
		case "fuzzy-max-size":
			cfg.FuzzyMaxSize = *fuzzyMaxSize
		case "extract-metadata":
			cfg.ExtractMetadata = *extractMetadata
		case "metadata-max-bytes":
			cfg.MetadataMaxBytes = *metadataMaxBytes
		case "collect-system-info":
			cfg.CollectSystemInfo = *collectSystemInfo
		case "check-updates":
			cfg.CheckUpdates = *checkUpdates
		case "diag-slow-scan-threshold":
			cfg.DiagSlowScanThreshold = *diagSlowScanThreshold
		case "diag-dir":
			cfg.DiagDir = strings.TrimSpace(*diagDir)
		case "diag-goroutine-leak":
			cfg.DiagGoroutineLeak = *diagGoroutineLeak
		case "otel-endpoint":
			cfg.OtelEndpoint = strings.TrimSpace(*otelEndpoint)
		case "otel-from-env":
			cfg.OtelFromEnv = *otelFromEnv
		case "otel-headers":
			cfg.OtelHeaders = parseHeaders(*otelHeaders)
		case "otel-service-name":
			cfg.OtelServiceName = strings.TrimSpace(*otelServiceName)
		case "otel-timeout":
			cfg.OtelTimeout = *otelTimeout
		case "otel-export-paths":
			cfg.OtelExportPaths = *otelExportPaths
		case "trace-flight":
			cfg.TraceFlight = *traceFlight
		case "trace-flight-file":
			cfg.TraceFlightFile = *traceFlightFile
		case "trace-flight-max-bytes":
			cfg.TraceFlightMaxBytes = *traceFlightMaxBytes
		case "trace-flight-min-age":
			cfg.TraceFlightMinAge = *traceFlightMinAge
		}
	})

	// A positional path wins over both the flag and the config file.
	if flag.NArg() > 0 {
		cfg.Path = flag.Arg(0)
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.ContentReadMode = strings.ToLower(strings.TrimSpace(cfg.ContentReadMode))
	if cfg.ContentReadMode == "" {
		cfg.ContentReadMode = "auto"
	}
	if cfg.MmapMinSize <= 0 {
		cfg.MmapMinSize = 128 * 1024
	}
	if cfg.DiagDir == "" {
		cfg.DiagDir = "."
	}
	cfg.HashAlgorithms = normalizeAlgorithms(cfg.HashAlgorithms)
	cfg.FuzzyAlgorithms = normalizeAlgorithms(cfg.FuzzyAlgorithms)
	if cfg.FuzzyHash && len(cfg.FuzzyAlgorithms) == 0 {
		cfg.FuzzyAlgorithms = []string{"tlsh"}
	}
	if len(cfg.FuzzyAlgorithms) > 0 {
		cfg.FuzzyHash = true
	}
	if cfg.FuzzyMaxSize > 0 && cfg.FuzzyMaxSize < cfg.FuzzyMinSize {
		cfg.FuzzyMaxSize = cfg.FuzzyMinSize
	}
	if cfg.TraceFlight && cfg.TraceFlightFile == "" {
		cfg.TraceFlightFile = "trace-flight.out"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func displayHelp() {
	fmt.Println("FileTypeAnalyzer - Magic Number Based File Type Detection")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ftanalyzer [options] <path>")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ftanalyzer ./downloads")
	fmt.Println("  ftanalyzer --json ./documents")
	fmt.Println("  ftanalyzer -r -o ./mixed_files")
	fmt.Println("  ftanalyzer -S custom_sigs.json ./files")
}

func (cfg *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file: %v", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("invalid config file format: %v", err)
	}
	return nil
}

func (cfg *Config) validate() error {
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" &&
		cfg.LogLevel != "error" && cfg.LogLevel != "fatal" && cfg.LogLevel != "panic" {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}
	if cfg.ContentReadMode != "stream" && cfg.ContentReadMode != "mmap" && cfg.ContentReadMode != "auto" {
		return fmt.Errorf("invalid content-read-mode value: %s", cfg.ContentReadMode)
	}
	if cfg.MaxFileSize < 0 {
		return fmt.Errorf("max-file-size must be zero or positive")
	}
	if cfg.MaxFilesPerSecond < 0 {
		return fmt.Errorf("max-files-per-second must be zero or positive")
	}
	if cfg.MaxOutputFileSize <= 0 {
		return fmt.Errorf("max-output-file-size must be positive")
	}
	if cfg.MmapMinSize < 0 {
		return fmt.Errorf("mmap-min-size must be zero or positive")
	}
	if cfg.XattrMaxValueSize < 0 {
		return fmt.Errorf("xattr-max-value-size must be zero or positive")
	}
	if cfg.FuzzyMinSize < 0 || cfg.FuzzyMaxSize < 0 {
		return fmt.Errorf("fuzzy size limits must be zero or positive")
	}
	if cfg.MetadataMaxBytes < 0 {
		return fmt.Errorf("metadata-max-bytes must be zero or positive")
	}
	if cfg.DiagSlowScanThreshold < 0 {
		return fmt.Errorf("diag-slow-scan-threshold must be zero or positive")
	}
	if cfg.TraceFlightMinAge < 0 {
		return fmt.Errorf("trace-flight-min-age must be zero or positive")
	}
	if cfg.OtelTimeout < 0 {
		return fmt.Errorf("otel-timeout must be zero or positive")
	}
	if cfg.OtelEndpoint != "" {
		if !strings.HasPrefix(cfg.OtelEndpoint, "http://") && !strings.HasPrefix(cfg.OtelEndpoint, "https://") {
			return fmt.Errorf("otel-endpoint must include scheme (http or https)")
		}
	}
	return nil
}

func parseCommaSeparated(input string) []string {
	if input == "" {
		return []string{}
	}
	items := strings.Split(input, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}

func parseHeaders(input string) map[string]string {
	headers := make(map[string]string)
	if input == "" {
		return headers
	}
	items := strings.Split(input, ",")
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			continue
		}
		headers[key] = value
	}
	return headers
}

func normalizeAlgorithms(items []string) []string {
	normalized := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		normalized = append(normalized, item)
	}
	return normalized
}
