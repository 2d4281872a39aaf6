package metrics

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// fileExporter periodically serializes a metrics registry into a file in the
// text exposition format. The file is replaced atomically (write to a
// temporary file, then rename) so that concurrent readers never see a
// half-written snapshot.
//
// A fileExporter runs at most once; create a new instance to export again.
type fileExporter struct {
	clock     clock.Clock
	logger    logr.Logger
	gatherer  prometheus.Gatherer
	path      string
	interval  time.Duration
	finalDump bool

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func newFileExporter(
	clk clock.Clock,
	logger logr.Logger,
	gatherer prometheus.Gatherer,
	path string,
	interval time.Duration,
	finalDump bool,
) *fileExporter {
	return &fileExporter{
		clock:     clk,
		logger:    logger,
		gatherer:  gatherer,
		path:      path,
		interval:  interval,
		finalDump: finalDump,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// run is the export loop. It terminates only via stop; dump failures are
// logged and retried on the next tick.
func (e *fileExporter) run() {
	defer close(e.doneCh)

	e.logger.Info("writing metrics to file",
		"path", e.path, "interval", e.interval.String())

	ticker := e.clock.Ticker(e.interval)
	defer ticker.Stop()

	consecutiveFailures := 0
	for {
		select {
		case <-e.stopCh:
			if e.finalDump {
				if err := e.dump(); err != nil {
					e.logger.Error(err, "failed to write final metrics snapshot",
						"path", e.path)
				}
			}
			return
		case <-ticker.C:
			if err := e.dump(); err != nil {
				consecutiveFailures++
				e.logger.Error(err, "failed to write metrics file",
					"path", e.path,
					"consecutiveFailures", consecutiveFailures)
			} else {
				consecutiveFailures = 0
			}
		}
	}
}

// stop cancels the export loop and waits until it has terminated, including
// a possibly in-flight dump and the final snapshot. Safe to call from any
// goroutine and safe to call multiple times.
func (e *fileExporter) stop() {
	e.stopOnce.Do(func() {
		close(e.stopCh)
	})
	<-e.doneCh
}

func (e *fileExporter) dump() error {
	families, err := e.gatherer.Gather()
	if err != nil {
		return errors.Wrap(err, "gathering metrics failed")
	}

	dir := filepath.Dir(e.path)
	tmpFile, err := os.CreateTemp(dir, filepath.Base(e.path)+".tmp*")
	if err != nil {
		return errors.Wrapf(err, "cannot create temporary file in %q", dir)
	}
	tmpName := tmpFile.Name()

	encoder := expfmt.NewEncoder(tmpFile, expfmt.FmtText)
	for _, family := range families {
		if err = encoder.Encode(family); err != nil {
			err = errors.Wrapf(err, "cannot encode metric family %q", family.GetName())
			break
		}
	}
	if err == nil {
		// os.CreateTemp creates the file with mode 0600; the snapshot must
		// be readable by the scraper running under a different user
		err = errors.Wrapf(tmpFile.Chmod(0o644), "cannot chmod %q", tmpName)
	}
	if closeErr := tmpFile.Close(); err == nil && closeErr != nil {
		err = errors.Wrapf(closeErr, "cannot write %q", tmpName)
	}
	if err == nil {
		err = errors.Wrapf(os.Rename(tmpName, e.path), "cannot replace %q", e.path)
	}
	if err != nil {
		// non-fatal: the next tick writes a fresh temporary file
		if removeErr := os.Remove(tmpName); removeErr != nil && !os.IsNotExist(removeErr) {
			e.logger.Error(removeErr, "failed to remove temporary metrics file",
				"path", tmpName)
		}
		return err
	}
	return nil
}
