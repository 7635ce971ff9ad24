package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	m := New()
	if m.Registry == nil {
		t.Fatal("expected non-nil Registry")
	}
	m.RollsTotal.Inc()
	fams, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(fams) == 0 {
		t.Fatal("expected at least one metric family after increment")
	}
}

func TestRecordRoll(t *testing.T) {
	m := New()

	m.RecordRoll(3, 4)
	m.RecordRoll(1, 2)

	if got := testutil.ToFloat64(m.RollsTotal); got != 2 {
		t.Fatalf("expected rolls 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.SetsTotal); got != 4 {
		t.Fatalf("expected sets 4, got %v", got)
	}
	if got := testutil.CollectAndCount(m.DiceDrawn); got != 1 {
		t.Fatalf("expected one dice histogram, got %d", got)
	}
}

func TestRecordInvalidNotation(t *testing.T) {
	m := New()

	m.RecordInvalidNotation()

	if got := testutil.ToFloat64(m.InvalidNotation); got != 1 {
		t.Fatalf("expected invalid notation 1, got %v", got)
	}
}

func TestObserveToolCall(t *testing.T) {
	m := New()

	m.ObserveToolCall("dice_roll", nil, 10*time.Millisecond)
	m.ObserveToolCall("dice_roll", errors.New("boom"), time.Millisecond)
	m.ObserveToolCall("dice_roll", nil, time.Millisecond)

	ok := testutil.ToFloat64(m.ToolCallsTotal.WithLabelValues("dice_roll", StatusOK))
	failed := testutil.ToFloat64(m.ToolCallsTotal.WithLabelValues("dice_roll", StatusError))
	if ok != 2 || failed != 1 {
		t.Fatalf("expected ok=2 error=1, got ok=%v error=%v", ok, failed)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordRoll(1, 1)
	m.RecordInvalidNotation()
	m.ObserveToolCall("dice_roll", nil, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Fatalf("expected 404 from nil handler, got %d", rec.Code)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.RecordRoll(1, 2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "dicenotation_rolls_total 1") {
		t.Fatalf("expected rolls counter in output, got:\n%s", body)
	}
}
