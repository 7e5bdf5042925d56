// Package metrics provides Prometheus instrumentation for the screensaver
// bot. All metrics are prefixed with "screensaver_bot_".
//
// Metrics are registered with the default registry via promauto; expose them
// by mounting promhttp.Handler() on the metrics endpoint. The [Collector]
// type periodically gathers statistics from the database and the image store
// and updates the corresponding gauges.
package metrics
