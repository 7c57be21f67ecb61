package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register() // must not panic on double registration
}

func TestCounters(t *testing.T) {
	Register()

	before := testutil.ToFloat64(recordsSynced)
	AddSynced(3)
	if got := testutil.ToFloat64(recordsSynced); got != before+3 {
		t.Errorf("expected synced counter %v, got %v", before+3, got)
	}

	beforeFailed := testutil.ToFloat64(recordsFailed)
	AddFailed(2)
	if got := testutil.ToFloat64(recordsFailed); got != beforeFailed+2 {
		t.Errorf("expected failed counter %v, got %v", beforeFailed+2, got)
	}

	beforeRuns := testutil.ToFloat64(syncRuns)
	IncSyncRun()
	if got := testutil.ToFloat64(syncRuns); got != beforeRuns+1 {
		t.Errorf("expected runs counter %v, got %v", beforeRuns+1, got)
	}
}

func TestGauges(t *testing.T) {
	Register()

	SetQueueDepth(7)
	if got := testutil.ToFloat64(queueDepth); got != 7 {
		t.Errorf("expected queue depth 7, got %v", got)
	}

	SetOnline(true)
	if got := testutil.ToFloat64(online); got != 1 {
		t.Errorf("expected online 1, got %v", got)
	}
	SetOnline(false)
	if got := testutil.ToFloat64(online); got != 0 {
		t.Errorf("expected online 0, got %v", got)
	}
}
