package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MetricsCollector keeps its own registry so nothing leaks into the default
// one. The process has no listener; WriteTextfile hands the numbers to a
// node_exporter textfile collector instead.
type MetricsCollector struct {
	registry        *prometheus.Registry
	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	snapshotWrites  *prometheus.CounterVec
	snapshotLoads   *prometheus.CounterVec
	logger          *logrus.Logger
}

func NewMetricsCollector(logger *logrus.Logger) *MetricsCollector {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	registry := prometheus.NewRegistry()

	return &MetricsCollector{
		registry: registry,
		commands: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "atm_commands_total",
			Help: "Console commands by outcome",
		}, []string{"command", "outcome"}),
		commandDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atm_command_duration_seconds",
			Help:    "Time spent executing a console command, excluding prompts",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),
		snapshotWrites: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "atm_snapshot_writes_total",
			Help: "Snapshot writes by result",
		}, []string{"result"}),
		snapshotLoads: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "atm_snapshot_loads_total",
			Help: "Snapshot loads by outcome",
		}, []string{"outcome"}),
		logger: logger,
	}
}

func (m *MetricsCollector) RecordCommand(command string, duration time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.commands.WithLabelValues(command, outcome).Inc()
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func (m *MetricsCollector) RecordSnapshotWrite(err error) {
	result := OutcomeSuccess
	if err != nil {
		result = OutcomeFailure
	}
	m.snapshotWrites.WithLabelValues(result).Inc()
}

func (m *MetricsCollector) RecordSnapshotLoad(outcome string) {
	m.snapshotLoads.WithLabelValues(outcome).Inc()
}

// WriteTextfile writes every metric in text exposition format to path. An
// empty path is a no-op.
func (m *MetricsCollector) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		m.logger.WithError(err).WithField("path", path).Error("Metrics.WriteTextfile.failed")
		return err
	}
	m.logger.WithField("path", path).Debug("Metrics.WriteTextfile.written")
	return nil
}
