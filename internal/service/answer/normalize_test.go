package answer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sandevgo/quorum/internal/core"
)

func TestNormalizer_Normalize(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	n := NewNormalizer([]string{"Spark", "Qianfan", "Doubao"}, func() time.Time { return now })

	got := n.Normalize(core.ProviderAnswers{SessionID: "17", A: "alpha", C: "gamma"})

	want := []core.AnswerRecord{
		{ID: "1", Provider: "Spark", Content: "alpha", CreatedAt: now, SessionID: "17"},
		{ID: "2", Provider: "Qianfan", Content: "", CreatedAt: now, SessionID: "17"},
		{ID: "3", Provider: "Doubao", Content: "gamma", CreatedAt: now, SessionID: "17"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizer_DefaultLabels(t *testing.T) {
	n := NewNormalizer(nil, nil)

	got := n.Labels()
	want := []string{"Provider A", "Provider B", "Provider C"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}

	records := n.Normalize(core.ProviderAnswers{SessionID: "x"})
	if len(records) != 3 {
		t.Fatalf("expected fixed arity of 3 records, got %d", len(records))
	}
	if records[0].CreatedAt.IsZero() {
		t.Error("expected CreatedAt to come from the wall clock")
	}
}

func TestNormalizer_LabelsReturnsCopy(t *testing.T) {
	n := NewNormalizer([]string{"Spark", "Qianfan", "Doubao"}, nil)

	labels := n.Labels()
	labels[0] = "Changed"

	if diff := cmp.Diff([]string{"Spark", "Qianfan", "Doubao"}, n.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
	if got := n.Normalize(core.ProviderAnswers{SessionID: "17"})[0].Provider; got != "Spark" {
		t.Errorf("expected provider Spark, got %q", got)
	}
}
