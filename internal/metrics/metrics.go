// Package metrics содержит метрики Prometheus сервиса контента лаунчера.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchSourceTotal - какой источник ответил на вызов (rss/online/offline).
	FetchSourceTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launcher_fetch_source_total",
		Help: "Total number of served launcher resources, by resource and source.",
	}, []string{"resource", "source"})

	// FallbackTotal - переходы к следующему источнику по причине.
	FallbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launcher_fallback_total",
		Help: "Total number of fallbacks to the next source, by resource and reason.",
	}, []string{"resource", "reason"})

	// UnavailableTotal - вызовы, в которых не сработал ни один источник.
	UnavailableTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launcher_unavailable_total",
		Help: "Total number of calls where both online and offline sources failed, by resource.",
	}, []string{"resource"})

	// InstancesSkippedTotal - пропущенные записи /files, значение которых не является объектом.
	InstancesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "launcher_instances_skipped_total",
		Help: "Total number of instance entries skipped because their value is not a JSON object.",
	})

	// MirrorTotal - попытки обновления офлайн-снимка по документу и результату.
	MirrorTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launcher_offline_mirror_total",
		Help: "Total number of offline mirror attempts, by document and result.",
	}, []string{"document", "result"})
)
