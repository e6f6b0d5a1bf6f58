/*
Package observability turns document store hooks into logs and Prometheus
metrics.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := observability.Combine(metrics.Hooks(), observability.LogHooks(logger))
	ed, _ := dyeflow.New(dyeflow.WithHooks(hooks))
*/
package observability
