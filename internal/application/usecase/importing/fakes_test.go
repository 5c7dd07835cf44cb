package importing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// fakeLedger stores movements and imported payment ids, and records the calls made.
type fakeLedger struct {
	mu         sync.Mutex
	movements  []*entity.Movement
	payments   map[string]uuid.UUID // org|provider|id -> movement
	dayQueries [][]string
	idQueries  [][]string
	saveCalls  int
	listErr    error
	findErr    error
	saveErr    error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{payments: make(map[string]uuid.UUID)}
}

func paymentKey(organizationID uuid.UUID, provider, externalID string) string {
	return organizationID.String() + "|" + provider + "|" + externalID
}

func (l *fakeLedger) Create(_ context.Context, m *entity.Movement) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.movements = append(l.movements, m)
	return nil
}

func (l *fakeLedger) FindByID(context.Context, uuid.UUID, uuid.UUID) (*entity.Movement, error) {
	return nil, nil
}

func (l *fakeLedger) ListUnlinked(context.Context, uuid.UUID, int, int) ([]*entity.Movement, error) {
	return nil, nil
}

func (l *fakeLedger) ListByIssueDays(_ context.Context, organizationID uuid.UUID, days []string) ([]*entity.Movement, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dayQueries = append(l.dayQueries, days)
	if l.listErr != nil {
		return nil, l.listErr
	}
	wanted := make(map[string]bool, len(days))
	for _, d := range days {
		wanted[d] = true
	}
	var out []*entity.Movement
	for _, m := range l.movements {
		if m.OrganizationID == organizationID && wanted[valueobject.FormatDay(m.IssueDate)] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (l *fakeLedger) FindExisting(_ context.Context, organizationID uuid.UUID, provider string, externalIDs []string) (map[string]bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.idQueries = append(l.idQueries, externalIDs)
	if l.findErr != nil {
		return nil, l.findErr
	}
	found := make(map[string]bool)
	for _, id := range externalIDs {
		if _, ok := l.payments[paymentKey(organizationID, provider, id)]; ok {
			found[id] = true
		}
	}
	return found, nil
}

func (l *fakeLedger) SaveImport(_ context.Context, batch adapter.ImportBatch) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.saveCalls++
	if l.saveErr != nil {
		return l.saveErr
	}
	l.movements = append(l.movements, batch.Movements...)
	for _, p := range batch.Payments {
		l.payments[paymentKey(batch.OrganizationID, batch.Provider, p.ExternalPaymentID)] = p.MovementID
	}
	return nil
}

type fakeMetrics struct {
	mu         sync.Mutex
	duplicates map[string]int
	imported   int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{duplicates: make(map[string]int)}
}

func (m *fakeMetrics) IncrSuggestion(string) {}

func (m *fakeMetrics) IncrDuplicate(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duplicates[reason]++
}

func (m *fakeMetrics) IncrLinkConflict() {}

func (m *fakeMetrics) AddImported(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imported += count
}

func (m *fakeMetrics) AddAutoLinked(int) {}
