package output

import (
	"testing"

	"ftanalyzer/classifier"
	"ftanalyzer/config"

	otelLog "go.opentelemetry.io/otel/log"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

func findAttr(kvs []otelLog.KeyValue, key string) (otelLog.Value, bool) {
	for _, kv := range kvs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return otelLog.Value{}, false
}

func findAttrIndex(kvs []otelLog.KeyValue, key string) int {
	for i, kv := range kvs {
		if kv.Key == key {
			return i
		}
	}
	return -1
}

func TestResolveOtelEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", "https://logs.example.test/v1/logs")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://fallback.example.test")

	cfg := &config.Config{OtelEndpoint: "  https://explicit.example.test  ", OtelFromEnv: true}
	if got := resolveOtelEndpoint(cfg); got != "https://explicit.example.test" {
		t.Fatalf("expected explicit endpoint, got %q", got)
	}

	cfg = &config.Config{OtelFromEnv: true}
	if got := resolveOtelEndpoint(cfg); got != "https://logs.example.test/v1/logs" {
		t.Fatalf("expected logs env endpoint, got %q", got)
	}

	t.Setenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT", "")
	cfg = &config.Config{OtelFromEnv: true}
	if got := resolveOtelEndpoint(cfg); got != "https://fallback.example.test" {
		t.Fatalf("expected fallback env endpoint, got %q", got)
	}

	cfg = &config.Config{OtelFromEnv: false}
	if got := resolveOtelEndpoint(cfg); got != "" {
		t.Fatalf("expected empty endpoint when env fallback disabled, got %q", got)
	}
}

func TestSanitizePayloadFile(t *testing.T) {
	filePayload := map[string]interface{}{
		"path": "/tmp/secret.png",
		"name": "secret.png",
		"type": "PNG",
	}
	sanitized, ok := sanitizePayload("file", filePayload, otelPolicy{}).(map[string]interface{})
	if !ok {
		t.Fatalf("expected sanitized file payload map")
	}
	if _, ok := sanitized["path"]; ok {
		t.Fatal("expected file path to be stripped")
	}
	if sanitized["name"] != "secret.png" {
		t.Fatal("expected file name to survive sanitization")
	}
	if _, ok := filePayload["path"]; !ok {
		t.Fatal("expected original file payload to remain unchanged")
	}

	withPaths, ok := sanitizePayload("file", filePayload, otelPolicy{includePaths: true}).(map[string]interface{})
	if !ok {
		t.Fatalf("expected sanitized file payload map")
	}
	if _, ok := withPaths["path"]; !ok {
		t.Fatal("expected file path to survive when paths are enabled")
	}
}

func TestSanitizePayloadSystemInfo(t *testing.T) {
	systemPayload := map[string]interface{}{
		"hostname": "workstation-7",
		"os":       "linux",
	}
	sanitized, ok := sanitizePayload("system_info", systemPayload, otelPolicy{}).(map[string]interface{})
	if !ok {
		t.Fatalf("expected sanitized system payload map")
	}
	if _, ok := sanitized["hostname"]; ok {
		t.Fatal("expected hostname to be stripped")
	}
	if sanitized["os"] != "linux" {
		t.Fatal("expected os to survive sanitization")
	}

	withPaths, ok := sanitizePayload("system_info", systemPayload, otelPolicy{includePaths: true}).(map[string]interface{})
	if !ok {
		t.Fatalf("expected sanitized system payload map")
	}
	if _, ok := withPaths["hostname"]; !ok {
		t.Fatal("expected hostname to survive when paths are enabled")
	}
}

func TestSemanticAttributesFile(t *testing.T) {
	payload := map[string]interface{}{
		"path":              "/tmp/dir/report.png",
		"size":              int64(42),
		"type":              "PNG",
		"category":          "Image",
		"entropy":           7.91,
		"isCorrupt":         false,
		"extensionMismatch": true,
		"expectedExtension": ".png",
		"hashes":            map[string]string{"sha256": "abc123"},
	}

	attrs := semanticAttributes("file", payload, otelPolicy{includePaths: true})
	if value, ok := findAttr(attrs, string(semconv.FilePathKey)); !ok || value.AsString() != "/tmp/dir/report.png" {
		t.Fatalf("expected file path semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, string(semconv.FileNameKey)); !ok || value.AsString() != "report.png" {
		t.Fatalf("expected file name semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, string(semconv.FileSizeKey)); !ok || value.AsInt64() != 42 {
		t.Fatalf("expected file size semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, "ftanalyzer.file.type"); !ok || value.AsString() != "PNG" {
		t.Fatalf("expected type semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, "ftanalyzer.file.entropy"); !ok || value.AsFloat64() != 7.91 {
		t.Fatalf("expected entropy semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, "ftanalyzer.file.extension_mismatch"); !ok || !value.AsBool() {
		t.Fatalf("expected extension mismatch semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, "ftanalyzer.file.is_corrupt"); !ok || value.AsBool() {
		t.Fatalf("expected is_corrupt=false semantic attribute, got %#v", value)
	}
	if _, ok := findAttr(attrs, "ftanalyzer.file.hash.sha256"); !ok {
		t.Fatal("expected hash semantic attribute")
	}

	attrsNoPaths := semanticAttributes("file", payload, otelPolicy{})
	if _, ok := findAttr(attrsNoPaths, string(semconv.FilePathKey)); ok {
		t.Fatal("did not expect file path semantic attribute when paths are disabled")
	}
	if _, ok := findAttr(attrsNoPaths, string(semconv.FileNameKey)); !ok {
		t.Fatal("expected file name semantic attribute even when paths are disabled")
	}
}

func TestSemanticAttributesSummary(t *testing.T) {
	payload := map[string]interface{}{
		"totalFiles":      int64(11),
		"totalTime":       1.25,
		"threadsUsed":     int64(4),
		"totalSize":       int64(4096),
		"corruptFiles":    int64(1),
		"mismatchedFiles": int64(2),
		"encryptedFiles":  int64(3),
		"statistics":      []interface{}{map[string]interface{}{"type": "PNG"}},
	}

	attrs := semanticAttributes("summary", payload, otelPolicy{})
	if value, ok := findAttr(attrs, "ftanalyzer.summary.total_files"); !ok || value.AsInt64() != 11 {
		t.Fatalf("expected total_files semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, "ftanalyzer.summary.total_time_seconds"); !ok || value.AsFloat64() != 1.25 {
		t.Fatalf("expected total_time semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, "ftanalyzer.summary.threads_used"); !ok || value.AsInt64() != 4 {
		t.Fatalf("expected threads_used semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, "ftanalyzer.summary.unique_types"); !ok || value.AsInt64() != 1 {
		t.Fatalf("expected unique_types semantic attribute, got %#v", value)
	}
}

func TestSemanticAttributesSystemInfo(t *testing.T) {
	payload := map[string]interface{}{
		"hostname":     "workstation-7",
		"os":           "linux",
		"osVersion":    "ubuntu 24.04",
		"architecture": "amd64",
		"cpuCores":     int64(16),
	}

	attrs := semanticAttributes("system_info", payload, otelPolicy{})
	if _, ok := findAttr(attrs, string(semconv.HostNameKey)); ok {
		t.Fatal("did not expect hostname semantic attribute when paths are disabled")
	}
	if value, ok := findAttr(attrs, string(semconv.OSDescriptionKey)); !ok || value.AsString() != "ubuntu 24.04" {
		t.Fatalf("expected os description semantic attribute, got %#v", value)
	}
	if value, ok := findAttr(attrs, "ftanalyzer.system.cpu_cores"); !ok || value.AsInt64() != 16 {
		t.Fatalf("expected cpu_cores semantic attribute, got %#v", value)
	}

	attrsWithHost := semanticAttributes("system_info", payload, otelPolicy{includePaths: true})
	if value, ok := findAttr(attrsWithHost, string(semconv.HostNameKey)); !ok || value.AsString() != "workstation-7" {
		t.Fatalf("expected hostname semantic attribute when paths are enabled, got %#v", value)
	}
}

func TestPayloadToMapFromStruct(t *testing.T) {
	payload := classifier.Result{Name: "report.png", Type: "PNG", Size: 42}
	data := payloadToMap(payload)
	if data == nil {
		t.Fatal("expected payloadToMap to decode struct payload")
	}
	if got := getStringField(data, "name"); got != "report.png" {
		t.Fatalf("expected name=%q, got %q", "report.png", got)
	}
	if got, ok := getInt64Field(data, "size"); !ok || got != 42 {
		t.Fatalf("expected size=42, got %d (ok=%v)", got, ok)
	}
}

func TestToLogValueCompositeTypes(t *testing.T) {
	mapValue := toLogValue(map[string]string{"a": "b"})
	if mapValue.Kind() != otelLog.KindMap {
		t.Fatalf("expected map kind, got %v", mapValue.Kind())
	}
	intSliceValue := toLogValue([]int{1, 2, 3})
	if intSliceValue.Kind() != otelLog.KindSlice || len(intSliceValue.AsSlice()) != 3 {
		t.Fatalf("expected int slice kind/len, got kind=%v len=%d", intSliceValue.Kind(), len(intSliceValue.AsSlice()))
	}
	if empty := toLogValue(struct{}{}); empty.Kind() != otelLog.KindEmpty {
		t.Fatalf("expected empty kind for unsupported type, got %v", empty.Kind())
	}
}

func TestOtelLoggerEndpointAndValidation(t *testing.T) {
	var nilLogger *otelLogger
	if got := nilLogger.Endpoint(); got != "" {
		t.Fatalf("expected empty endpoint for nil logger, got %q", got)
	}

	ol := &otelLogger{endpoint: "https://otel.example.test"}
	if got := ol.Endpoint(); got != "https://otel.example.test" {
		t.Fatalf("unexpected endpoint from logger: %q", got)
	}

	loggerNilCfg, err := newOtelLogger(nil)
	if err != nil {
		t.Fatalf("newOtelLogger(nil) returned error: %v", err)
	}
	if loggerNilCfg != nil {
		t.Fatal("expected nil logger for nil config")
	}

	_, err = newOtelLogger(&config.Config{
		OtelEndpoint:    "localhost:4318",
		OtelServiceName: "ftanalyzer",
		OtelTimeout:     1,
	})
	if err == nil {
		t.Fatal("expected validation error for endpoint without scheme")
	}
}

func TestToLogKeyValuesSortedOrder(t *testing.T) {
	values := map[string]interface{}{
		"zeta":   1,
		"alpha":  2,
		"middle": 3,
	}
	kvs := toLogKeyValues(values)
	if len(kvs) != 3 {
		t.Fatalf("expected 3 key values, got %d", len(kvs))
	}
	if kvs[0].Key != "alpha" || kvs[1].Key != "middle" || kvs[2].Key != "zeta" {
		t.Fatalf("expected sorted keys, got order %q, %q, %q", kvs[0].Key, kvs[1].Key, kvs[2].Key)
	}
}

func TestFileSemanticAttributesHashOrderDeterministic(t *testing.T) {
	payload := map[string]interface{}{
		"path": "/tmp/hash-order.txt",
		"hashes": map[string]string{
			"sha256": "bbb",
			"md5":    "aaa",
		},
		"fuzzyHashes": map[string]string{
			"ssdeep": "ddd",
			"tlsh":   "ccc",
		},
	}
	attrs := fileSemanticAttributes(payload, otelPolicy{includePaths: true})

	md5Idx := findAttrIndex(attrs, "ftanalyzer.file.hash.md5")
	shaIdx := findAttrIndex(attrs, "ftanalyzer.file.hash.sha256")
	if md5Idx == -1 || shaIdx == -1 {
		t.Fatalf("expected both md5 and sha256 attrs, got attrs=%v", attrs)
	}
	if md5Idx > shaIdx {
		t.Fatalf("expected md5 attr before sha256 attr, got md5=%d sha256=%d", md5Idx, shaIdx)
	}

	ssdeepIdx := findAttrIndex(attrs, "ftanalyzer.file.fuzzy_hash.ssdeep")
	tlshIdx := findAttrIndex(attrs, "ftanalyzer.file.fuzzy_hash.tlsh")
	if ssdeepIdx == -1 || tlshIdx == -1 {
		t.Fatalf("expected both fuzzy hash attrs, got attrs=%v", attrs)
	}
	if ssdeepIdx > tlshIdx {
		t.Fatalf("expected ssdeep attr before tlsh attr, got ssdeep=%d tlsh=%d", ssdeepIdx, tlshIdx)
	}
}
