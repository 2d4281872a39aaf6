package httpmetrics

import (
	"github.com/go-logr/logr"
	klog "k8s.io/klog/v2"
)

// logger receives log output of this package, e.g. collector registration
// failures.
var logger logr.Logger = klog.Background()
