package scanner

import (
	"context"
	"errors"
	"os"
	"time"

	"ftanalyzer/classifier"
	"ftanalyzer/config"
	"ftanalyzer/fuzzy"
	"ftanalyzer/hasher"
	"ftanalyzer/logger"
	"ftanalyzer/metadata"
)

// Module is an optional annotation pass that runs after classification
// and fills in the enrichment fields of a result.
type Module interface {
	Name() string
	Enabled(cfg *config.Config) bool
	Collect(ctx context.Context, fc *FileContext, res *classifier.Result) error
}

// FileContext carries the per-file state shared by annotation modules.
type FileContext struct {
	Path string
	Info os.FileInfo
	Cfg  *config.Config
}

func buildModules() []Module {
	return []Module{
		timesModule{},
		xattrModule{},
		hashModule{},
		fuzzyModule{},
		metadataModule{},
	}
}

// annotate runs the enabled modules against a classified result.
// Results whose path was rejected are left untouched; their files are
// never opened or stat'ed. Module failures downgrade to debug logs so
// one file cannot abort the scan.
func (p *Pipeline) annotate(ctx context.Context, path string, res *classifier.Result) {
	if res.Type == classifier.TypeError {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	fc := &FileContext{Path: path, Info: info, Cfg: p.cfg}
	for _, module := range p.modules {
		if !module.Enabled(p.cfg) {
			continue
		}
		if err := module.Collect(ctx, fc, res); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			logger.Debugf("Module %s failed for %s: %v", module.Name(), path, err)
		}
	}
}

type timesModule struct{}

func (m timesModule) Name() string { return "times" }

func (m timesModule) Enabled(cfg *config.Config) bool { return cfg.CollectTimes }

func (m timesModule) Collect(ctx context.Context, fc *FileContext, res *classifier.Result) error {
	res.ModTime = fc.Info.ModTime().Format(time.RFC3339)
	res.Permissions = fc.Info.Mode().Perm().String()
	if fileID := getFileID(fc.Path, fc.Info); fileID != "" {
		res.FileID = fileID
	}
	ts, err := fileTimes(fc.Path)
	if err != nil {
		return err
	}
	res.CreationTime = ts.CreationTime
	res.AccessTime = ts.AccessTime
	res.ChangeTime = ts.ChangeTime
	return nil
}

type xattrModule struct{}

func (m xattrModule) Name() string { return "xattrs" }

func (m xattrModule) Enabled(cfg *config.Config) bool { return cfg.CollectXattrs }

func (m xattrModule) Collect(ctx context.Context, fc *FileContext, res *classifier.Result) error {
	xattrs, err := getXattrs(fc.Path, fc.Cfg.XattrMaxValueSize)
	if err != nil {
		if errors.Is(err, errNotSupported) {
			return nil
		}
		return err
	}
	if len(xattrs) > 0 {
		res.Xattrs = xattrs
	}
	return nil
}

type hashModule struct{}

func (m hashModule) Name() string { return "hashes" }

func (m hashModule) Enabled(cfg *config.Config) bool { return len(cfg.HashAlgorithms) > 0 }

func (m hashModule) Collect(ctx context.Context, fc *FileContext, res *classifier.Result) error {
	if hashes := hasher.ComputeHashes(fc.Path, fc.Cfg.HashAlgorithms); len(hashes) > 0 {
		res.Hashes = hashes
	}
	return nil
}

type fuzzyModule struct{}

func (m fuzzyModule) Name() string { return "fuzzy" }

func (m fuzzyModule) Enabled(cfg *config.Config) bool {
	return cfg.FuzzyHash && len(cfg.FuzzyAlgorithms) > 0
}

func (m fuzzyModule) Collect(ctx context.Context, fc *FileContext, res *classifier.Result) error {
	size := fc.Info.Size()
	if size < fc.Cfg.FuzzyMinSize {
		return nil
	}
	if fc.Cfg.FuzzyMaxSize > 0 && size > fc.Cfg.FuzzyMaxSize {
		return nil
	}
	if hashes := fuzzy.Compute(fc.Path, fc.Cfg.FuzzyAlgorithms); len(hashes) > 0 {
		res.FuzzyHashes = hashes
	}
	return nil
}

type metadataModule struct{}

func (m metadataModule) Name() string { return "metadata" }

func (m metadataModule) Enabled(cfg *config.Config) bool { return cfg.ExtractMetadata }

func (m metadataModule) Collect(ctx context.Context, fc *FileContext, res *classifier.Result) error {
	if meta := metadata.Extract(fc.Path, res.Type, fc.Cfg.MetadataMaxBytes); len(meta) > 0 {
		res.Metadata = meta
	}
	return nil
}

var errNotSupported = errors.New("not supported")
