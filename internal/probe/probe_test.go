package probe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

// stepClock advances by step on every Now call so Since reports exactly step.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *stepClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Sub(t)
}

type panickingProbe struct{}

func (panickingProbe) Kind() Kind { return KindEmail }

func (panickingProbe) Check(context.Context, *config.Config) types.ProbeResult {
	panic("provider exploded")
}

type staticProbe struct {
	kind   Kind
	result types.ProbeResult
}

func (s staticProbe) Kind() Kind { return s.kind }

func (s staticProbe) Check(context.Context, *config.Config) types.ProbeResult { return s.result }

func TestRun_RecoversPanic(t *testing.T) {
	result := Run(context.Background(), panickingProbe{}, config.Defaults())

	assert.Equal(t, "email", result.Component)
	assert.Equal(t, types.ProbeStatusUnhealthy, result.Status)
	assert.Equal(t, "provider exploded", result.Error)
	assert.False(t, result.ObservedAt.IsZero())
}

func TestRun_StampsComponentAndTime(t *testing.T) {
	p := staticProbe{kind: KindCache, result: types.ProbeResult{Status: types.ProbeStatusHealthy}}

	result := Run(context.Background(), p, config.Defaults())

	assert.Equal(t, "cache", result.Component)
	assert.Equal(t, types.ProbeStatusHealthy, result.Status)
	assert.False(t, result.ObservedAt.IsZero())
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		parsed, ok := ParseKind(string(k))
		require.True(t, ok)
		assert.Equal(t, k, parsed)
	}

	_, ok := ParseKind("queue")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	budget := time.Second

	assert.Equal(t, types.ProbeStatusHealthy, classify(200*time.Millisecond, budget))
	assert.Equal(t, types.ProbeStatusHealthy, classify(budget, budget))
	assert.Equal(t, types.ProbeStatusDegraded, classify(budget+time.Millisecond, budget))
}

func TestLatencyResult(t *testing.T) {
	r := latencyResult(1500*time.Millisecond, time.Second, "ok")

	assert.Equal(t, types.ProbeStatusDegraded, r.Status)
	require.NotNil(t, r.ResponseTimeMs)
	assert.Equal(t, int64(1500), *r.ResponseTimeMs)
	assert.Contains(t, r.Message, "1500ms")
}
