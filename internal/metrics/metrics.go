// Package metrics exposes persistence counters on a private prometheus registry.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Persistence counts writes, backups, and coalesced schedules.
// A nil *Persistence is valid and records nothing.
type Persistence struct {
	registry  *prometheus.Registry
	writes    *prometheus.CounterVec
	backups   *prometheus.CounterVec
	coalesced *prometheus.CounterVec
	recovery  *prometheus.CounterVec
}

// NewPersistence creates the counters on a fresh registry.
func NewPersistence() *Persistence {
	m := &Persistence{
		registry: prometheus.NewRegistry(),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftlog",
			Name:      "store_writes_total",
			Help:      "Primary store writes by store and outcome.",
		}, []string{"store", "outcome"}),
		backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftlog",
			Name:      "backup_writes_total",
			Help:      "Backup ring writes by outcome.",
		}, []string{"outcome"}),
		coalesced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftlog",
			Name:      "persist_coalesced_total",
			Help:      "Scheduled persists that replaced a pending one.",
		}, []string{"store"}),
		recovery: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftlog",
			Name:      "load_outcomes_total",
			Help:      "Startup load outcomes.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.writes, m.backups, m.coalesced, m.recovery)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveWrite counts one primary write.
func (m *Persistence) ObserveWrite(store string, err error) {
	if m == nil {
		return
	}
	m.writes.WithLabelValues(store, outcome(err)).Inc()
}

// ObserveBackup counts one backup ring write.
func (m *Persistence) ObserveBackup(err error) {
	if m == nil {
		return
	}
	m.backups.WithLabelValues(outcome(err)).Inc()
}

// ObserveCoalesced counts a schedule that replaced a pending timer.
func (m *Persistence) ObserveCoalesced(store string) {
	if m == nil {
		return
	}
	m.coalesced.WithLabelValues(store).Inc()
}

// ObserveLoad counts a startup load outcome.
func (m *Persistence) ObserveLoad(result string) {
	if m == nil {
		return
	}
	m.recovery.WithLabelValues(result).Inc()
}

// Sample is one counter value with its labels flattened into Name.
type Sample struct {
	Name  string
	Value float64
}

// Gather returns every counter sample sorted by name.
func (m *Persistence) Gather() ([]Sample, error) {
	if m == nil {
		return nil, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			out = append(out, Sample{
				Name:  fam.GetName() + labelString(metric.GetLabel()),
				Value: metric.GetCounter().GetValue(),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func labelString(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	s := "{"
	for i, l := range labels {
		if i > 0 {
			s += ","
		}
		s += l.GetName() + "=\"" + l.GetValue() + "\""
	}
	return s + "}"
}
