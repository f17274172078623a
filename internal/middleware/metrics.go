package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics collector. It registers on
// the default Prometheus registry, so the scrape endpoint also serves the
// townsquare_* series and the Go runtime collectors. Scrapes of /metrics are
// not recorded.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.NewWithDefaultRegistry(serviceName)
		prom.SetSkipPaths([]string{"/metrics"})
	})
	return prom
}
