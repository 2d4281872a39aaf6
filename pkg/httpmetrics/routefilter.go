package httpmetrics

import "sync"

var routeFilter routeFilterState

// routeFilterState restricts which route templates get observed by the
// middleware. A non-empty include set observes only the listed templates
// (the exclude set is ignored then); otherwise listed exclude templates are
// skipped.
type routeFilterState struct {
	mutex   sync.RWMutex
	include map[string]struct{}
	exclude map[string]struct{}
}

// SetRouteFilter configures which route templates the middleware observes.
// If include is non-empty, only the listed templates are observed and
// exclude is ignored. Otherwise, templates listed in exclude are skipped.
// Passing two empty slices removes any filtering.
func SetRouteFilter(include, exclude []string) {
	routeFilter.mutex.Lock()
	defer routeFilter.mutex.Unlock()
	routeFilter.include = toSet(include)
	routeFilter.exclude = toSet(exclude)
}

func (f *routeFilterState) isExcluded(route string) bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	if len(f.include) > 0 {
		_, ok := f.include[route]
		return !ok
	}
	if len(f.exclude) > 0 {
		_, ok := f.exclude[route]
		return ok
	}
	return false
}

func toSet(routes []string) map[string]struct{} {
	if len(routes) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		set[route] = struct{}{}
	}
	return set
}
