package eventstream

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRecordDispatch(t *testing.T) {
	metrics := NewMetrics("test")
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	m := newTestManager(t, Config{Metrics: metrics}, abSnapshot(t))
	mustRegister(t, m, StreamConfig{
		Name:        "zoom",
		EventFilter: EventFilter{Types: []EventType{EventMouseWheel}},
		Throttle:    100 * time.Millisecond,
		Consume:     true,
	}, recorder(UpdateRender))

	var s chartState
	m.Deliver(PointerMove(10, 10).At(ms(0)), &s)
	for i := 0; i < 3; i++ {
		m.Deliver(Wheel(0, 1, WheelLines).At(ms(i*10)), &s)
	}

	if got := testutil.ToFloat64(metrics.RawEvents.WithLabelValues("wheel")); got != 3 {
		t.Errorf("raw wheel = %v, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.SceneEvents.WithLabelValues("mouse-enter")); got != 2 {
		t.Errorf("scene mouse-enter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.Invocations.WithLabelValues("zoom")); got != 1 {
		t.Errorf("invocations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.Consumed.WithLabelValues("zoom")); got != 1 {
		t.Errorf("consumed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.Suppressed.WithLabelValues("zoom", "throttle")); got != 2 {
		t.Errorf("throttled = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(metrics.DispatchDuration); n != 1 {
		t.Errorf("duration series = %d, want 1", n)
	}
}

func TestMetricsRegisterTwice(t *testing.T) {
	metrics := NewMetrics("test")
	reg := prometheus.NewRegistry()
	if err := metrics.Register(reg); err != nil {
		t.Fatal(err)
	}
	if err := metrics.Register(reg); err == nil {
		t.Error("second Register should fail")
	}
}

func TestMetricsNil(t *testing.T) {
	var m *Metrics
	m.recordRaw(RawWheel)
	m.recordScene(EventClick)
	m.recordInvocation("s", nil)
	m.recordConsumed("s")
	m.recordSuppressed("s", reasonThrottle)
	m.recordDuration(time.Millisecond)
}
