package reconciliation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
)

var errStoreDown = errors.New("store unavailable")

// memoryStore backs the movement, document and reconciliation fakes with shared state
// so links written by one fake are visible through the others.
type memoryStore struct {
	mu        sync.Mutex
	movements map[uuid.UUID]*entity.Movement
	documents map[uuid.UUID]*entity.Document
	claimedBy map[uuid.UUID]uuid.UUID // document id -> movement id
	linkedAt  map[uuid.UUID]time.Time // movement id -> commit time
	// raceOn makes the next Link on the document lose to a concurrent commit.
	raceOn    map[uuid.UUID]bool
	failWith  error
	linkCalls int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		movements: make(map[uuid.UUID]*entity.Movement),
		documents: make(map[uuid.UUID]*entity.Document),
		claimedBy: make(map[uuid.UUID]uuid.UUID),
		linkedAt:  make(map[uuid.UUID]time.Time),
		raceOn:    make(map[uuid.UUID]bool),
	}
}

func (s *memoryStore) addMovement(m *entity.Movement) {
	s.movements[m.ID] = m
	if m.IsLinked() {
		s.claimedBy[*m.LinkedDocumentID] = m.ID
		s.linkedAt[m.ID] = m.UpdatedAt
	}
}

func (s *memoryStore) addDocument(d *entity.Document) {
	s.documents[d.ID] = d
}

type fakeMovementRepo struct{ store *memoryStore }

func (r *fakeMovementRepo) Create(_ context.Context, m *entity.Movement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.addMovement(m)
	return nil
}

func (r *fakeMovementRepo) FindByID(_ context.Context, organizationID, id uuid.UUID) (*entity.Movement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failWith != nil {
		return nil, r.store.failWith
	}
	m, ok := r.store.movements[id]
	if !ok || m.OrganizationID != organizationID {
		return nil, domainerror.ErrMovementNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *fakeMovementRepo) ListByIssueDays(context.Context, uuid.UUID, []string) ([]*entity.Movement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) ListUnlinked(_ context.Context, organizationID uuid.UUID, limit, offset int) ([]*entity.Movement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failWith != nil {
		return nil, r.store.failWith
	}
	var out []*entity.Movement
	for _, m := range r.store.movements {
		if m.OrganizationID == organizationID && !m.IsLinked() {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.Before(out[j].IssueDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return page(out, limit, offset), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items
}

type fakeDocumentRepo struct{ store *memoryStore }

func (r *fakeDocumentRepo) Create(_ context.Context, d *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.addDocument(d)
	return nil
}

func (r *fakeDocumentRepo) FindByID(_ context.Context, organizationID, id uuid.UUID) (*entity.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.documents[id]
	if !ok || d.OrganizationID != organizationID {
		return nil, domainerror.ErrDocumentNotFound
	}
	return d, nil
}

func (r *fakeDocumentRepo) ListUnlinked(_ context.Context, organizationID uuid.UUID) ([]*entity.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Document
	for id, d := range r.store.documents {
		if _, claimed := r.store.claimedBy[id]; claimed || d.OrganizationID != organizationID {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDocumentRepo) ExistsByNumber(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

type fakeReconciliationRepo struct{ store *memoryStore }

func (r *fakeReconciliationRepo) Link(_ context.Context, _, movementID, documentID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.linkCalls++
	m := r.store.movements[movementID]
	if m.IsLinked() {
		if *m.LinkedDocumentID == documentID {
			return nil
		}
		return domainerror.ErrMovementAlreadyLinked
	}
	if r.store.raceOn[documentID] {
		delete(r.store.raceOn, documentID)
		r.store.claimedBy[documentID] = uuid.New()
		return domainerror.ErrLinkConflict
	}
	if _, claimed := r.store.claimedBy[documentID]; claimed {
		return domainerror.ErrDocumentAlreadyLinked
	}
	r.store.claimedBy[documentID] = movementID
	m.LinkTo(documentID)
	r.store.linkedAt[movementID] = m.UpdatedAt
	return nil
}

func (r *fakeReconciliationRepo) Unlink(_ context.Context, _, movementID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m := r.store.movements[movementID]
	if m.IsLinked() {
		delete(r.store.claimedBy, *m.LinkedDocumentID)
	}
	delete(r.store.linkedAt, movementID)
	m.Unlink()
	return nil
}

func (r *fakeReconciliationRepo) ListLinks(_ context.Context, organizationID uuid.UUID, limit, offset int) ([]adapter.LinkedPairData, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failWith != nil {
		return nil, r.store.failWith
	}
	var out []adapter.LinkedPairData
	for _, m := range r.store.movements {
		if m.OrganizationID != organizationID || !m.IsLinked() {
			continue
		}
		doc, ok := r.store.documents[*m.LinkedDocumentID]
		if !ok {
			continue
		}
		clone := *m
		out = append(out, adapter.LinkedPairData{Movement: &clone, Document: doc, LinkedAt: r.store.linkedAt[m.ID]})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LinkedAt.Equal(out[j].LinkedAt) {
			return out[i].LinkedAt.After(out[j].LinkedAt)
		}
		return out[i].Movement.ID.String() < out[j].Movement.ID.String()
	})
	return page(out, limit, offset), nil
}

func (r *fakeReconciliationRepo) GetReconciliationSummary(_ context.Context, organizationID uuid.UUID) (*adapter.ReconciliationSummaryData, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failWith != nil {
		return nil, r.store.failWith
	}
	summary := &adapter.ReconciliationSummaryData{}
	for _, m := range r.store.movements {
		if m.OrganizationID != organizationID {
			continue
		}
		if m.IsLinked() {
			summary.LinkedMovements++
		} else {
			summary.UnlinkedMovements++
		}
	}
	for id, d := range r.store.documents {
		if _, claimed := r.store.claimedBy[id]; !claimed && d.OrganizationID == organizationID {
			summary.UnlinkedDocuments++
		}
	}
	return summary, nil
}

type fakeMetrics struct {
	mu          sync.Mutex
	suggestions map[string]int
	conflicts   int
	autoLinked  int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{suggestions: make(map[string]int)}
}

func (m *fakeMetrics) IncrSuggestion(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.suggestions[level]++
}

func (m *fakeMetrics) IncrDuplicate(string) {}

func (m *fakeMetrics) IncrLinkConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *fakeMetrics) AddImported(int) {}

func (m *fakeMetrics) AddAutoLinked(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.autoLinked += count
}
