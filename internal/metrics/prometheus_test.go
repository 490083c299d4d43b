package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCollector(t *testing.T) *MetricsCollector {
	t.Helper()
	logger, _ := test.NewNullLogger()
	return NewMetricsCollector(logger)
}

func TestRecordCommand(t *testing.T) {
	m := newTestCollector(t)

	m.RecordCommand("withdraw", 5*time.Millisecond, nil)
	m.RecordCommand("withdraw", 2*time.Millisecond, errors.New("insufficient funds"))
	m.RecordCommand("withdraw", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues("withdraw", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("withdraw", OutcomeFailure)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.commandDuration))
}

func TestRecordSnapshot(t *testing.T) {
	m := newTestCollector(t)

	m.RecordSnapshotLoad("seeded")
	m.RecordSnapshotWrite(nil)
	m.RecordSnapshotWrite(errors.New("disk full"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotLoads.WithLabelValues("seeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotWrites.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.snapshotWrites.WithLabelValues(OutcomeFailure)))
}

func TestWriteTextfile(t *testing.T) {
	m := newTestCollector(t)
	m.RecordCommand("login", time.Millisecond, nil)
	path := filepath.Join(t.TempDir(), "atm.prom")

	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), `atm_commands_total{command="login",outcome="success"} 1`), string(raw))
}

func TestWriteTextfile_EmptyPathIsNoop(t *testing.T) {
	m := newTestCollector(t)

	assert.NoError(t, m.WriteTextfile(""))
}

func TestWriteTextfile_BadDirectory(t *testing.T) {
	m := newTestCollector(t)

	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "atm.prom"))

	assert.Error(t, err)
}
