package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ftanalyzer/classifier"
	"ftanalyzer/config"
	"ftanalyzer/logger"
	"ftanalyzer/scanner"
	"ftanalyzer/systeminfo"
)

// streamRecord envelopes one line of the NDJSON stream.
type streamRecord struct {
	RecordType    string      `json:"recordType"`
	SchemaVersion string      `json:"schemaVersion"`
	Data          interface{} `json:"data"`
}

// summaryRecord is the aggregate line written once at the end of a
// run. It mirrors Document minus the per-file records, which stream
// individually.
type summaryRecord struct {
	Tool               ToolInfo           `json:"tool"`
	Scan               ScanInfo           `json:"scan"`
	TotalFiles         int                `json:"totalFiles"`
	TotalTime          float64            `json:"totalTime"`
	ThreadsUsed        int                `json:"threadsUsed"`
	TotalSize          int64              `json:"totalSize"`
	TotalSizeFormatted string             `json:"totalSizeFormatted"`
	CorruptFiles       int                `json:"corruptFiles"`
	MismatchedFiles    int                `json:"mismatchedFiles"`
	EncryptedFiles     int                `json:"encryptedFiles"`
	Statistics         []scanner.TypeStat `json:"statistics"`
}

// Writer streams scan records to a file, one JSON object per line,
// rotating to a numbered sibling once the file passes the configured
// size cap. Records are mirrored to an OTLP log exporter when one is
// configured. Safe for concurrent use; a nil *Writer is a no-op.
type Writer struct {
	mu    sync.Mutex
	file  *os.File
	buf   *bufio.Writer
	cfg   *config.Config
	otel  *otelLogger
	base  string
	ext   string
	index int
}

// NewWriter opens the stream named by cfg.OutputFileName and writes
// the system_info record when sysInfo is non-nil.
func NewWriter(cfg *config.Config, sysInfo *systeminfo.SystemInfo) (*Writer, error) {
	ext := filepath.Ext(cfg.OutputFileName)
	base := strings.TrimSuffix(cfg.OutputFileName, ext)
	if ext == "" {
		ext = ".ndjson"
	}

	w := &Writer{cfg: cfg, base: base, ext: ext}
	otel, err := newOtelLogger(cfg)
	if err != nil {
		logger.Warnf("OTEL export disabled: %v", err)
	} else {
		w.otel = otel
	}
	if err := w.openFile(); err != nil {
		return nil, err
	}
	if sysInfo != nil {
		w.mu.Lock()
		w.writeLocked("system_info", sysInfo)
		w.mu.Unlock()
	}
	return w, nil
}

// WriteResult appends one classified-file record.
func (w *Writer) WriteResult(res *classifier.Result) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writeLocked("file", res)
}

// WriteSummary appends the aggregate record for the run.
func (w *Writer) WriteSummary(doc Document) {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writeLocked("summary", summaryRecord{
		Tool:               doc.Tool,
		Scan:               doc.Scan,
		TotalFiles:         doc.TotalFiles,
		TotalTime:          doc.TotalTime,
		ThreadsUsed:        doc.ThreadsUsed,
		TotalSize:          doc.TotalSize,
		TotalSizeFormatted: doc.TotalSizeFormatted,
		CorruptFiles:       doc.CorruptFiles,
		MismatchedFiles:    doc.MismatchedFiles,
		EncryptedFiles:     doc.EncryptedFiles,
		Statistics:         doc.Statistics,
	})
}

// Close flushes and closes the stream and shuts down the OTLP
// exporter when one is active.
func (w *Writer) Close() {
	if w == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeFile()
	if w.otel != nil {
		w.otel.Shutdown()
	}
}

func (w *Writer) writeLocked(recordType string, payload interface{}) {
	if w.buf != nil {
		data, err := jsonMarshal(streamRecord{
			RecordType:    recordType,
			SchemaVersion: SchemaVersion,
			Data:          payload,
		})
		if err != nil {
			logger.Debugf("Output record dropped: %v", err)
		} else {
			_, _ = w.buf.Write(data)
			_ = w.buf.WriteByte('\n')
			_ = w.buf.Flush()
		}
	}
	if w.otel != nil {
		w.otel.Emit(recordType, payload)
	}
	if w.cfg != nil && w.cfg.MaxOutputFileSize > 0 && w.file != nil {
		if info, err := w.file.Stat(); err == nil && info.Size() >= w.cfg.MaxOutputFileSize {
			w.rotate()
		}
	}
}

func (w *Writer) openFile() error {
	name := w.base + w.ext
	if w.index > 0 {
		name = fmt.Sprintf("%s.%d%s", w.base, w.index, w.ext)
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	w.file = f
	w.buf = bufio.NewWriterSize(f, 1024*1024)
	return nil
}

func (w *Writer) rotate() {
	w.closeFile()
	w.index++
	if err := w.openFile(); err != nil {
		logger.Warnf("Output rotation failed: %v", err)
		w.file = nil
		w.buf = nil
	}
}

func (w *Writer) closeFile() {
	if w.buf != nil {
		_ = w.buf.Flush()
	}
	if w.file != nil {
		_ = w.file.Sync()
		_ = w.file.Close()
	}
}
