package answer

import (
	"slices"
	"strconv"
	"time"

	"github.com/sandevgo/quorum/internal/core"
)

// Normalizer turns the three provider slots of a submission into records.
// Record ids are the 1-based slot numbers, so they are unique only within
// a session.
type Normalizer struct {
	labels [3]string
	now    func() time.Time
}

func NewNormalizer(labels []string, now func() time.Time) *Normalizer {
	n := &Normalizer{
		labels: [3]string{"Provider A", "Provider B", "Provider C"},
		now:    now,
	}
	for i := 0; i < len(labels) && i < len(n.labels); i++ {
		n.labels[i] = labels[i]
	}
	if n.now == nil {
		n.now = time.Now
	}
	return n
}

// Labels returns the provider label of each slot.
func (n *Normalizer) Labels() []string {
	return slices.Clone(n.labels[:])
}

func (n *Normalizer) Normalize(raw core.ProviderAnswers) []core.AnswerRecord {
	createdAt := n.now()
	slots := raw.Slots()

	records := make([]core.AnswerRecord, 0, len(slots))
	for i, content := range slots {
		records = append(records, core.AnswerRecord{
			ID:        strconv.Itoa(i + 1),
			Provider:  n.labels[i],
			Content:   content,
			CreatedAt: createdAt,
			SessionID: raw.SessionID,
		})
	}
	return records
}
