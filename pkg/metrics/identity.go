package metrics

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	// ServiceLabel is the reserved label carrying the service name.
	ServiceLabel = "service"

	// InstanceLabel is the reserved label carrying the name of the
	// service instance, e.g. the pod or container name.
	InstanceLabel = "instance"

	// serviceNameFallback is used as service label value if no service
	// name has been configured.
	serviceNameFallback = "undefined"
)

var identityLabels = []string{ServiceLabel, InstanceLabel}

var identity identityState

// identityState holds the identity label values of this process.
// The values are set once via `set` and are immutable afterwards.
type identityState struct {
	mutex    sync.RWMutex
	isSet    bool
	service  string
	instance string
}

func (s *identityState) set(service, instance string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.isSet {
		// first value wins, identity is immutable for the process lifetime
		return
	}
	if service == "" {
		service = serviceNameFallback
	}
	if instance == "" {
		instance = defaultInstanceName()
	}
	s.service = service
	s.instance = instance
	s.isSet = true
}

func (s *identityState) get() (service, instance string, ok bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.service, s.instance, s.isSet
}

func (s *identityState) clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.isSet = false
	s.service = ""
	s.instance = ""
}

// defaultInstanceName returns the hostname, or a random identifier if the
// hostname cannot be determined.
func defaultInstanceName() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	return uuid.NewString()
}

var enabledFlag atomic.Bool

// Enabled returns whether metrics collection has been enabled via Start.
// Collectors keep working when disabled, but the middleware and method
// observers bypass any bookkeeping.
func Enabled() bool {
	return enabledFlag.Load()
}

func setEnabled(value bool) {
	enabledFlag.Store(value)
}
