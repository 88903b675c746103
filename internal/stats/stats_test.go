package stats

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"capsuledb/pkg/models"
	"capsuledb/pkg/store"
	"capsuledb/pkg/telemetry"
)

func TestRunOnce_CountsByStatus(t *testing.T) {
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	now := uint64(time.Now().UTC().UnixNano())
	farFuture := now + uint64(24*time.Hour)

	mk := func(id, unlock uint64, policy models.AccessPolicy) models.TimeCapsule {
		return models.TimeCapsule{
			ID:            id,
			Creator:       "alice",
			CreationDate:  now,
			UnlockDate:    unlock,
			Content:       models.Content{Type: models.ContentText, Text: "x"},
			AccessControl: policy,
		}
	}
	pub := models.AccessPolicy{Type: models.PolicyPublic}
	priv := models.AccessPolicy{Type: models.PolicyPrivate, AllowedViewers: []string{"bob"}}

	if err := st.Insert(mk(1, farFuture, pub)); err != nil { // sealed
		t.Fatalf("insert: %v", err)
	}
	if err := st.Insert(mk(2, 1, pub)); err != nil { // unlocked
		t.Fatalf("insert: %v", err)
	}
	if err := st.Insert(mk(3, 1, priv)); err != nil { // pending for anonymous
		t.Fatalf("insert: %v", err)
	}

	if err := RunOnce(st); err != nil {
		t.Fatalf("run once: %v", err)
	}

	check := func(status string, want float64) {
		got := testutil.ToFloat64(telemetry.CapsulesByStatus.WithLabelValues(status))
		if got != want {
			t.Fatalf("gauge %s = %v, want %v", status, got, want)
		}
	}
	check("sealed", 1)
	check("unlocked", 1)
	check("unlock_pending", 1)

	if testutil.ToFloat64(telemetry.StoreDiskBytes) <= 0 {
		t.Fatalf("disk usage gauge not set")
	}
}

func TestStart_RejectsInvalidCron(t *testing.T) {
	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	if _, err := Start(context.Background(), st, true, "not a cron"); err == nil {
		t.Fatalf("invalid cron accepted")
	}
}

func TestStart_DisabledIsNoop(t *testing.T) {
	cancel, err := Start(context.Background(), nil, false, "")
	if err != nil {
		t.Fatalf("disabled start failed: %v", err)
	}
	cancel()
}
