// Package metrics records build and stage metrics.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks in the pipeline.
// PrometheusRecorder keeps the metrics in its own registry; a one-shot CLI
// run has no scrape endpoint, so the registry is exported with WriteTextfile
// for the node_exporter textfile collector.
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	builder := build.New(cfg, build.WithRecorder(rec))
//	...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/doxybuilder.prom")
package metrics
