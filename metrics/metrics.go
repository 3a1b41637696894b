package metrics

import (
	"errors"
	"net/http"

	"germplasm-accession-importer/domain/germplasm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "germplasm_import"

// 运行结果
const (
	OutcomeCommitted          = "committed"
	OutcomeRolledBack         = "rolled_back"
	OutcomeDryRun             = "dry_run"
	OutcomePreconditionFailed = "precondition_failed"
	OutcomeFailed             = "failed"
)

/*
Collector 导入相关的 prometheus 指标，注册在独立的 Registry 上。
*/
type Collector struct {
	registry *prometheus.Registry

	runs               *prometheus.CounterVec
	lines              *prometheus.CounterVec
	events             *prometheus.CounterVec
	accessionsInserted prometheus.Counter
	runDuration        prometheus.Histogram
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Import runs by outcome.",
		}, []string{"outcome"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Input lines by result.",
		}, []string{"result"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Import events by level and error kind.",
		}, []string{"level", "kind"}),
		accessionsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "accessions_inserted_total",
			Help:      "Accessions inserted by committed runs.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of import runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}

	c.registry.MustRegister(c.runs, c.lines, c.events, c.accessionsInserted, c.runDuration)
	return c
}

func Outcome(result *germplasm.ImportResult, err error) string {
	var precondition *germplasm.PreconditionError
	switch {
	case err == nil && result != nil && result.Committed:
		return OutcomeCommitted
	case err == nil:
		return OutcomeDryRun
	case errors.Is(err, germplasm.ErrUnresolvedErrors):
		return OutcomeRolledBack
	case errors.As(err, &precondition):
		return OutcomePreconditionFailed
	default:
		return OutcomeFailed
	}
}

/*
ObserveRun 统计一次运行，用作 germplasm.ImportSetting.AfterRun
*/
func (c *Collector) ObserveRun(result *germplasm.ImportResult, err error) {
	c.runs.WithLabelValues(Outcome(result, err)).Inc()
	if result == nil {
		return
	}

	stats := result.Stats
	c.lines.WithLabelValues("ok").Add(float64(stats.DataLines - stats.FailedLines))
	c.lines.WithLabelValues("failed").Add(float64(stats.FailedLines))
	c.lines.WithLabelValues("skipped").Add(float64(stats.SkippedLines))

	if result.Committed {
		c.accessionsInserted.Add(float64(stats.StocksInserted))
	}
	if !result.FinishTime.IsZero() {
		c.runDuration.Observe(result.FinishTime.Sub(result.StartTime).Seconds())
	}
}

/*
Emit 按级别和错误分类统计事件，使 Collector 可以作为 germplasm.EventSink
*/
func (c *Collector) Emit(event germplasm.Event) {
	c.events.WithLabelValues(event.Level.String(), string(event.Kind)).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

var defaultCollector = NewCollector()

func Default() *Collector {
	return defaultCollector
}
