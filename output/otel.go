package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ftanalyzer/config"
	"ftanalyzer/logger"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	otelLog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
)

type otelLogger struct {
	provider *sdklog.LoggerProvider
	logger   otelLog.Logger
	timeout  time.Duration
	endpoint string
	policy   otelPolicy
}

type otelPolicy struct {
	includePaths bool
}

func newOtelLogger(cfg *config.Config) (*otelLogger, error) {
	if cfg == nil {
		return nil, nil
	}
	endpoint := resolveOtelEndpoint(cfg)
	if endpoint == "" {
		return nil, nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("otel endpoint must include scheme (http or https)")
	}

	opts := []otlploghttp.Option{otlploghttp.WithEndpointURL(endpoint)}
	if len(cfg.OtelHeaders) > 0 {
		opts = append(opts, otlploghttp.WithHeaders(cfg.OtelHeaders))
	}
	if cfg.OtelTimeout > 0 {
		opts = append(opts, otlploghttp.WithTimeout(cfg.OtelTimeout))
	}

	exp, err := otlploghttp.New(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.OtelServiceName),
	)
	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exp)),
		sdklog.WithResource(res),
	)

	return &otelLogger{
		provider: provider,
		logger:   provider.Logger("ftanalyzer"),
		timeout:  cfg.OtelTimeout,
		endpoint: endpoint,
		policy: otelPolicy{
			includePaths: cfg.OtelExportPaths,
		},
	}, nil
}

func resolveOtelEndpoint(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	if endpoint := strings.TrimSpace(cfg.OtelEndpoint); endpoint != "" {
		return endpoint
	}
	if !cfg.OtelFromEnv {
		return ""
	}
	if endpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_LOGS_ENDPOINT")); endpoint != "" {
		return endpoint
	}
	return strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
}

func (o *otelLogger) Endpoint() string {
	if o == nil {
		return ""
	}
	return o.endpoint
}

func (o *otelLogger) Emit(recordType string, payload interface{}) {
	if o == nil || o.logger == nil {
		return
	}
	safePayload := sanitizePayload(recordType, payload, o.policy)

	var record otelLog.Record
	record.SetTimestamp(time.Now())
	record.SetObservedTimestamp(time.Now())
	record.SetEventName("ftanalyzer.record")
	record.AddAttributes(
		otelLog.String("record_type", recordType),
		otelLog.String("schema_version", SchemaVersion),
	)
	if attrs := semanticAttributes(recordType, safePayload, o.policy); len(attrs) > 0 {
		record.AddAttributes(attrs...)
	}

	value := toLogValue(safePayload)
	if value.Kind() == otelLog.KindEmpty {
		if data, err := json.Marshal(safePayload); err == nil {
			var decoded interface{}
			if err := json.Unmarshal(data, &decoded); err == nil {
				decodedValue := toLogValue(decoded)
				if decodedValue.Kind() != otelLog.KindEmpty {
					record.SetBody(decodedValue)
				} else {
					record.SetBody(otelLog.StringValue(string(data)))
				}
			} else {
				record.SetBody(otelLog.StringValue(string(data)))
			}
		}
	} else {
		record.SetBody(value)
	}

	o.logger.Emit(context.Background(), record)
}

func (o *otelLogger) Shutdown() {
	if o == nil || o.provider == nil {
		return
	}
	timeout := o.timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := o.provider.Shutdown(ctx); err != nil {
		logger.Debugf("OTEL shutdown failed: %v", err)
	}
}

// sanitizePayload strips host- or path-revealing fields from exported
// records unless the config opted in.
func sanitizePayload(recordType string, payload interface{}, policy otelPolicy) interface{} {
	data := payloadToMap(payload)
	if len(data) == 0 {
		return payload
	}

	switch recordType {
	case "file":
		sanitized := cloneMap(data)
		if !policy.includePaths {
			delete(sanitized, "path")
		}
		return sanitized
	case "system_info":
		sanitized := cloneMap(data)
		if !policy.includePaths {
			delete(sanitized, "hostname")
		}
		return sanitized
	default:
		return payload
	}
}

func cloneMap(src map[string]interface{}) map[string]interface{} {
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func toLogValue(value interface{}) otelLog.Value {
	switch v := value.(type) {
	case nil:
		return otelLog.Value{}
	case string:
		return otelLog.StringValue(v)
	case []byte:
		return otelLog.BytesValue(v)
	case bool:
		return otelLog.BoolValue(v)
	case int:
		return otelLog.IntValue(v)
	case int64:
		return otelLog.Int64Value(v)
	case float64:
		return otelLog.Float64Value(v)
	case float32:
		return otelLog.Float64Value(float64(v))
	case map[string]interface{}:
		return otelLog.MapValue(toLogKeyValues(v)...)
	case map[string]string:
		kvs := make([]otelLog.KeyValue, 0, len(v))
		for _, k := range sortedKeys(v) {
			kvs = append(kvs, otelLog.String(k, v[k]))
		}
		return otelLog.MapValue(kvs...)
	case []string:
		values := make([]otelLog.Value, 0, len(v))
		for _, item := range v {
			values = append(values, otelLog.StringValue(item))
		}
		return otelLog.SliceValue(values...)
	case []int:
		values := make([]otelLog.Value, 0, len(v))
		for _, item := range v {
			values = append(values, otelLog.IntValue(item))
		}
		return otelLog.SliceValue(values...)
	case []int64:
		values := make([]otelLog.Value, 0, len(v))
		for _, item := range v {
			values = append(values, otelLog.Int64Value(item))
		}
		return otelLog.SliceValue(values...)
	case []float64:
		values := make([]otelLog.Value, 0, len(v))
		for _, item := range v {
			values = append(values, otelLog.Float64Value(item))
		}
		return otelLog.SliceValue(values...)
	case []bool:
		values := make([]otelLog.Value, 0, len(v))
		for _, item := range v {
			values = append(values, otelLog.BoolValue(item))
		}
		return otelLog.SliceValue(values...)
	case []interface{}:
		values := make([]otelLog.Value, 0, len(v))
		for _, item := range v {
			values = append(values, toLogValue(item))
		}
		return otelLog.SliceValue(values...)
	default:
		_ = v
		return otelLog.Value{}
	}
}

// toLogKeyValues emits map entries in sorted key order so exported
// records are stable across runs.
func toLogKeyValues(values map[string]interface{}) []otelLog.KeyValue {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	kvs := make([]otelLog.KeyValue, 0, len(values))
	for _, key := range keys {
		kvs = append(kvs, otelLog.KeyValue{Key: key, Value: toLogValue(values[key])})
	}
	return kvs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func semanticAttributes(recordType string, payload interface{}, policy otelPolicy) []otelLog.KeyValue {
	data := payloadToMap(payload)
	if len(data) == 0 {
		return nil
	}

	switch recordType {
	case "file":
		return fileSemanticAttributes(data, policy)
	case "summary":
		return summarySemanticAttributes(data)
	case "system_info":
		return systemSemanticAttributes(data, policy)
	default:
		return nil
	}
}

func fileSemanticAttributes(data map[string]interface{}, policy otelPolicy) []otelLog.KeyValue {
	var kvs []otelLog.KeyValue

	path := getStringField(data, "path")
	name := getStringField(data, "name")
	if name == "" && path != "" {
		name = filepath.Base(path)
	}
	if policy.includePaths && path != "" {
		kvs = append(kvs, otelLog.String(string(semconv.FilePathKey), path))
		kvs = append(kvs, otelLog.String(string(semconv.FileDirectoryKey), filepath.Dir(path)))
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if ext != "" {
			kvs = append(kvs, otelLog.String(string(semconv.FileExtensionKey), ext))
		}
	}
	if name != "" {
		kvs = append(kvs, otelLog.String(string(semconv.FileNameKey), name))
	}
	if size, ok := getInt64Field(data, "size"); ok {
		kvs = append(kvs, otelLog.Int64(string(semconv.FileSizeKey), size))
	}

	kvs = appendStringAttr(kvs, "ftanalyzer.file.type", getStringField(data, "type"))
	kvs = appendStringAttr(kvs, "ftanalyzer.file.category", getStringField(data, "category"))
	kvs = appendStringAttr(kvs, "ftanalyzer.file.mime_type", getStringField(data, "mimeType"))
	if entropy, ok := getFloat64Field(data, "entropy"); ok {
		kvs = append(kvs, otelLog.Float64("ftanalyzer.file.entropy", entropy))
	}
	kvs = appendBoolAttr(kvs, "ftanalyzer.file.is_corrupt", data, "isCorrupt")
	kvs = appendBoolAttr(kvs, "ftanalyzer.file.extension_mismatch", data, "extensionMismatch")
	kvs = appendBoolAttr(kvs, "ftanalyzer.file.is_encrypted", data, "isEncrypted")
	kvs = appendStringAttr(kvs, "ftanalyzer.file.actual_extension", getStringField(data, "actualExtension"))
	kvs = appendStringAttr(kvs, "ftanalyzer.file.expected_extension", getStringField(data, "expectedExtension"))
	if ms, ok := getFloat64Field(data, "analysisTime"); ok {
		kvs = append(kvs, otelLog.Float64("ftanalyzer.file.analysis_time_ms", ms))
	}
	kvs = appendStringAttr(kvs, "ftanalyzer.file.mod_time", getStringField(data, "modTime"))
	kvs = appendStringAttr(kvs, "ftanalyzer.file.creation_time", getStringField(data, "creationTime"))
	kvs = appendStringAttr(kvs, "ftanalyzer.file.access_time", getStringField(data, "accessTime"))
	kvs = appendStringAttr(kvs, "ftanalyzer.file.change_time", getStringField(data, "changeTime"))
	kvs = appendStringAttr(kvs, "ftanalyzer.file.permissions", getStringField(data, "permissions"))
	kvs = appendStringAttr(kvs, "ftanalyzer.file.id", getStringField(data, "fileId"))

	if hints := getStringSliceField(data, "contentHints"); len(hints) > 0 {
		values := make([]otelLog.Value, 0, len(hints))
		for _, item := range hints {
			values = append(values, otelLog.StringValue(item))
		}
		kvs = append(kvs, otelLog.KeyValue{Key: "ftanalyzer.file.content_hints", Value: otelLog.SliceValue(values...)})
	}

	if hashes := getStringMapField(data, "hashes"); len(hashes) > 0 {
		kvs = append(kvs, otelLog.KeyValue{Key: "ftanalyzer.file.hashes", Value: toLogValue(hashes)})
		for _, algo := range sortedKeys(hashes) {
			if hashes[algo] == "" {
				continue
			}
			kvs = append(kvs, otelLog.String(fmt.Sprintf("ftanalyzer.file.hash.%s", algo), hashes[algo]))
		}
	}

	if hashes := getStringMapField(data, "fuzzyHashes"); len(hashes) > 0 {
		kvs = append(kvs, otelLog.KeyValue{Key: "ftanalyzer.file.fuzzy_hashes", Value: toLogValue(hashes)})
		for _, algo := range sortedKeys(hashes) {
			if hashes[algo] == "" {
				continue
			}
			kvs = append(kvs, otelLog.String(fmt.Sprintf("ftanalyzer.file.fuzzy_hash.%s", algo), hashes[algo]))
		}
	}

	kvs = appendInterfaceAttr(kvs, "ftanalyzer.file.metadata", getFieldValue(data, "metadata"))
	kvs = appendInterfaceAttr(kvs, "ftanalyzer.file.xattrs", getFieldValue(data, "xattrs"))

	return kvs
}

func summarySemanticAttributes(data map[string]interface{}) []otelLog.KeyValue {
	var kvs []otelLog.KeyValue

	if n, ok := getInt64Field(data, "totalFiles"); ok {
		kvs = append(kvs, otelLog.Int64("ftanalyzer.summary.total_files", n))
	}
	if t, ok := getFloat64Field(data, "totalTime"); ok {
		kvs = append(kvs, otelLog.Float64("ftanalyzer.summary.total_time_seconds", t))
	}
	if n, ok := getInt64Field(data, "threadsUsed"); ok {
		kvs = append(kvs, otelLog.Int64("ftanalyzer.summary.threads_used", n))
	}
	if n, ok := getInt64Field(data, "totalSize"); ok {
		kvs = append(kvs, otelLog.Int64("ftanalyzer.summary.total_size_bytes", n))
	}
	if n, ok := getInt64Field(data, "corruptFiles"); ok {
		kvs = append(kvs, otelLog.Int64("ftanalyzer.summary.corrupt_files", n))
	}
	if n, ok := getInt64Field(data, "mismatchedFiles"); ok {
		kvs = append(kvs, otelLog.Int64("ftanalyzer.summary.mismatched_files", n))
	}
	if n, ok := getInt64Field(data, "encryptedFiles"); ok {
		kvs = append(kvs, otelLog.Int64("ftanalyzer.summary.encrypted_files", n))
	}
	if stats, ok := getFieldValue(data, "statistics").([]interface{}); ok && len(stats) > 0 {
		kvs = append(kvs, otelLog.Int64("ftanalyzer.summary.unique_types", int64(len(stats))))
	}

	return kvs
}

func systemSemanticAttributes(data map[string]interface{}, policy otelPolicy) []otelLog.KeyValue {
	var kvs []otelLog.KeyValue

	if policy.includePaths {
		kvs = appendStringAttr(kvs, string(semconv.HostNameKey), getStringField(data, "hostname"))
	}
	kvs = appendStringAttr(kvs, string(semconv.OSNameKey), getStringField(data, "os"))
	if osVersion := getStringField(data, "osVersion"); osVersion != "" {
		kvs = append(kvs, otelLog.String(string(semconv.OSDescriptionKey), osVersion))
		kvs = append(kvs, otelLog.String(string(semconv.OSVersionKey), osVersion))
	}
	kvs = appendStringAttr(kvs, string(semconv.HostArchKey), getStringField(data, "architecture"))
	kvs = appendStringAttr(kvs, "ftanalyzer.system.platform", getStringField(data, "platform"))
	kvs = appendStringAttr(kvs, "ftanalyzer.system.kernel_version", getStringField(data, "kernelVersion"))
	kvs = appendStringAttr(kvs, "ftanalyzer.system.cpu_model", getStringField(data, "cpuModel"))
	if n, ok := getInt64Field(data, "cpuCores"); ok {
		kvs = append(kvs, otelLog.Int64("ftanalyzer.system.cpu_cores", n))
	}
	if n, ok := getInt64Field(data, "totalMemory"); ok && n > 0 {
		kvs = append(kvs, otelLog.Int64("ftanalyzer.system.total_memory_bytes", n))
	}

	return kvs
}

func payloadToMap(payload interface{}) map[string]interface{} {
	switch v := payload.(type) {
	case map[string]interface{}:
		return v
	case map[string]string:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			out[key] = value
		}
		return out
	default:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil
		}
		return decoded
	}
}

func getFieldValue(values map[string]interface{}, key string) interface{} {
	if values == nil {
		return nil
	}
	return values[key]
}

func getStringField(values map[string]interface{}, key string) string {
	value, ok := values[key]
	if !ok {
		return ""
	}
	if str, ok := value.(string); ok {
		return str
	}
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}

func getInt64Field(values map[string]interface{}, key string) (int64, bool) {
	value, ok := values[key]
	if !ok || value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	case float32:
		return int64(v), true
	case json.Number:
		if parsed, err := v.Int64(); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func getFloat64Field(values map[string]interface{}, key string) (float64, bool) {
	value, ok := values[key]
	if !ok || value == nil {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		if parsed, err := v.Float64(); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func getBoolField(values map[string]interface{}, key string) (bool, bool) {
	value, ok := values[key]
	if !ok || value == nil {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

func getStringSliceField(values map[string]interface{}, key string) []string {
	value, ok := values[key]
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

func getStringMapField(values map[string]interface{}, key string) map[string]string {
	value, ok := values[key]
	if !ok || value == nil {
		return nil
	}
	switch v := value.(type) {
	case map[string]string:
		return v
	case map[string]interface{}:
		out := make(map[string]string, len(v))
		for k, val := range v {
			if val == nil {
				continue
			}
			out[k] = fmt.Sprint(val)
		}
		return out
	default:
		return nil
	}
}

func appendStringAttr(kvs []otelLog.KeyValue, key, value string) []otelLog.KeyValue {
	if value == "" {
		return kvs
	}
	return append(kvs, otelLog.String(key, value))
}

func appendBoolAttr(kvs []otelLog.KeyValue, key string, values map[string]interface{}, field string) []otelLog.KeyValue {
	value, ok := getBoolField(values, field)
	if !ok {
		return kvs
	}
	return append(kvs, otelLog.Bool(key, value))
}

func appendInterfaceAttr(kvs []otelLog.KeyValue, key string, value interface{}) []otelLog.KeyValue {
	if value == nil {
		return kvs
	}
	converted := toLogValue(value)
	if converted.Kind() == otelLog.KindEmpty {
		return kvs
	}
	return append(kvs, otelLog.KeyValue{Key: key, Value: converted})
}
