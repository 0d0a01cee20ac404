package effects

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/shiftlog/internal/models"
)

func TestPlanDispatch(t *testing.T) {
	data := models.DefaultState()
	data.Requests = append(data.Requests, models.Request{ID: "r1", Num: "1", Addr: "a"})
	settings := models.DefaultSettings()
	render := RenderEffect{Data: data, Settings: settings}

	tests := []struct {
		name            string
		persistData     bool
		persistSettings bool
		want            []Effect
	}{
		{
			name: "render only",
			want: []Effect{render},
		},
		{
			name:        "data",
			persistData: true,
			want: []Effect{
				PersistEffect{Store: StoreData, Mode: PersistScheduled},
				render,
			},
		},
		{
			name:            "settings",
			persistSettings: true,
			want: []Effect{
				PersistEffect{Store: StoreSettings, Mode: PersistScheduled},
				render,
			},
		},
		{
			name:            "both stores",
			persistData:     true,
			persistSettings: true,
			want: []Effect{
				PersistEffect{Store: StoreData, Mode: PersistScheduled},
				PersistEffect{Store: StoreSettings, Mode: PersistScheduled},
				render,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanDispatch(tt.persistData, tt.persistSettings, data, settings)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PlanDispatch mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlanFlush(t *testing.T) {
	got := PlanFlush()
	if len(got) != 2 {
		t.Fatalf("expected 2 effects, got %d", len(got))
	}
	for _, eff := range got {
		p, ok := eff.(PersistEffect)
		if !ok || p.Mode != PersistImmediate {
			t.Errorf("expected immediate persist, got %#v", eff)
		}
	}
}

func TestPlanRecovery(t *testing.T) {
	got := PlanRecovery(42)
	if len(got) != 2 {
		t.Fatalf("expected 2 effects, got %d", len(got))
	}
	log, ok := got[0].(LogEffect)
	if !ok || log.Level != "warn" || log.Fields["backup_timestamp"] != int64(42) {
		t.Errorf("unexpected log effect %#v", got[0])
	}
	if diff := cmp.Diff(PersistEffect{Store: StoreData, Mode: PersistImmediate}, got[1]); diff != "" {
		t.Errorf("persist effect mismatch (-want +got):\n%s", diff)
	}
}
