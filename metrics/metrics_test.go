package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/enetx/fsm/v2"
	"github.com/enetx/fsm/v2/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCollector_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg, "test")

	b := fsm.NewBuilder[string, string]()
	b.When("idle").On("start").TransitionTo("running")
	b.When("running").On("crash").TransitionTo("failed").
		Execute(func(*fsm.ActionContext[string, string]) error { return errors.New("crashed") })

	m := b.Build("idle", fsm.WithObserver(c))

	for _, ev := range []string{"start", "noise", "crash"} {
		_, _ = m.FireEventBlocking(ev)
	}

	// a second machine reports into the same collector
	_, err := m.Clone().FireEventBlocking("start")
	require.NoError(t, err)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.Queued()))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Evaluations(metrics.OutcomeTransition)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Evaluations(metrics.OutcomeNoMatch)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Evaluations(metrics.OutcomeError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Pending()))

	count, err := testutil.GatherAndCount(reg, "test_fsm_evaluation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCollector_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg, "dup")

	assert.Panics(t, func() { metrics.New(reg, "dup") })
}
