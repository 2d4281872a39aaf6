package metrics

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	klog "k8s.io/klog/v2"
)

// defaultFileUpdateInterval is the pause between metric file updates if no
// interval is configured.
const defaultFileUpdateInterval = 15 * time.Second

// Options configures metrics collection for the process. Service and
// Instance become the identity label values of every collector; reading them
// from the environment is the caller's concern.
type Options struct {
	// Service is the service name. Empty selects a placeholder value.
	Service string

	// Instance identifies the running instance, e.g. the pod or container
	// name. Empty selects the hostname or, failing that, a random
	// identifier.
	Instance string

	// Enabled switches metric bookkeeping on. When false, the middleware
	// and method observers pass calls through without recording anything.
	Enabled bool

	// WriteToFile enables the periodic serialization of the registry into
	// OutFilePath. Requires OutFilePath to be set.
	WriteToFile bool

	// OutFilePath is the target file for periodic serialization.
	OutFilePath string

	// FileUpdateInterval is the pause between file updates. Zero or
	// negative selects the default of 15 seconds.
	FileUpdateInterval time.Duration

	// SkipFinalDump suppresses the synchronous snapshot written during
	// Stop. By default the on-disk file reflects the state at shutdown.
	SkipFinalDump bool

	// Logger receives log output of this package. Nil selects the klog
	// background logger.
	Logger *logr.Logger
}

var (
	lifecycleMutex sync.Mutex
	activeExporter *fileExporter
	exporterClock  clock.Clock = clock.New()
)

// Start configures the identity labels and, if enabled and configured,
// launches the background task writing the registry to a file.
//
// Identity labels are set by the first call and are immutable afterwards.
// Calling Start while the file export is already running is a no-op for the
// export: the running task keeps its interval. Start is safe to call
// multiple times.
func Start(opts Options) error {
	lifecycleMutex.Lock()
	defer lifecycleMutex.Unlock()

	if opts.WriteToFile && opts.OutFilePath == "" {
		return errors.New("metrics file export requires an output file path")
	}

	logger := klog.Background()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	identity.set(opts.Service, opts.Instance)
	setEnabled(opts.Enabled)

	if !opts.Enabled {
		logger.Info("metrics disabled, skipping file export")
		return nil
	}
	if !opts.WriteToFile {
		return nil
	}
	if activeExporter != nil {
		return nil
	}

	interval := opts.FileUpdateInterval
	if interval <= 0 {
		interval = defaultFileUpdateInterval
	}

	activeExporter = newFileExporter(
		exporterClock, logger, Gatherer(),
		opts.OutFilePath, interval, !opts.SkipFinalDump,
	)
	go activeExporter.run()
	return nil
}

// Stop cancels the background file export started by Start and waits until
// it has terminated. It is a no-op if the export is not running, also when
// Start has never been called.
func Stop() {
	lifecycleMutex.Lock()
	defer lifecycleMutex.Unlock()

	if activeExporter == nil {
		return
	}
	activeExporter.stop()
	activeExporter = nil
}
