package scanner

import (
	"time"

	"github.com/djherbis/times"
)

// FileTimes carries the extra timestamps the platform exposes beyond
// modification time, already formatted as RFC3339. Fields the platform
// cannot report stay empty.
type FileTimes struct {
	CreationTime string
	AccessTime   string
	ChangeTime   string
}

func fileTimes(path string) (FileTimes, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return FileTimes{}, err
	}
	ft := FileTimes{AccessTime: ts.AccessTime().Format(time.RFC3339)}
	if ts.HasChangeTime() {
		ft.ChangeTime = ts.ChangeTime().Format(time.RFC3339)
	}
	if ts.HasBirthTime() {
		ft.CreationTime = ts.BirthTime().Format(time.RFC3339)
	}
	return ft, nil
}
