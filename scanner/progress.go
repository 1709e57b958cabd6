package scanner

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"ftanalyzer/classifier"

	"github.com/schollz/progressbar/v3"
)

// progressPollInterval is how often the reporter samples the shared
// counters. Workers never wait on the bar.
const progressPollInterval = 50 * time.Millisecond

const progressNameWidth = 30

// RunWithProgress runs the pipeline while a background poller repaints
// a terminal progress bar. The bar shows the sampled completed count
// and the most recently finished file name. A nil prog allocates a
// private one; callers that also feed a watchdog pass their own.
func (p *Pipeline) RunWithProgress(ctx context.Context, paths []string, workerBudget int, prog *Progress) ([]classifier.Result, error) {
	if prog == nil {
		prog = NewProgress(len(paths))
	}
	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Analyzing files"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetVisibility(progressVisible()),
		progressbar.OptionFullWidth(),
	)

	stop := make(chan struct{})
	var pollWG sync.WaitGroup
	pollWG.Add(1)
	go func() {
		defer pollWG.Done()
		ticker := time.NewTicker(progressPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				repaint(bar, prog)
			}
		}
	}()

	results, err := p.Run(ctx, paths, workerBudget, prog)

	close(stop)
	pollWG.Wait()
	repaint(bar, prog)
	_ = bar.Finish()
	return results, err
}

func repaint(bar *progressbar.ProgressBar, prog *Progress) {
	_ = bar.Set(int(prog.Completed()))
	if name := prog.LastFile(); name != "" {
		bar.Describe("Analyzing " + truncateName(name, progressNameWidth))
	}
}

func truncateName(name string, width int) string {
	if len(name) <= width {
		return name
	}
	return name[:width] + "..."
}

func progressVisible() bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv("FTANALYZER_DISABLE_PROGRESS")))
	return value != "1" && value != "true" && value != "yes" && value != "on"
}
