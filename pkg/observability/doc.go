/*
Package observability turns the editor's lifecycle hooks into Prometheus
metrics and structured log lines.

	metrics := observability.NewMetrics()
	editor := robobunny.New(robobunny.WithLifecycleHooks(
		observability.Combine(metrics.Hooks(), observability.LogHooks(logger)),
	))
	http.Handle("/metrics", metrics.Handler())
*/
package observability
