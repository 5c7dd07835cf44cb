package reconciliation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/domain/matcher"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// SuggestMatchesInput represents the input for suggesting documents for a movement.
type SuggestMatchesInput struct {
	OrganizationID uuid.UUID
	MovementID     uuid.UUID
	ReSuggest      bool // Allow suggestions for an already linked movement
}

// SuggestMatchesOutput represents the ranked candidates for a movement.
type SuggestMatchesOutput struct {
	MovementID uuid.UUID
	Candidates []valueobject.MatchCandidate
}

// SuggestMatchesUseCase handles ranking the organization's documents against a movement.
type SuggestMatchesUseCase struct {
	movementRepo adapter.MovementRepository
	documentRepo adapter.DocumentRepository
	matcher      *matcher.Matcher
	metrics      adapter.MetricsRecorder
}

// NewSuggestMatchesUseCase creates a new SuggestMatchesUseCase instance.
func NewSuggestMatchesUseCase(
	movementRepo adapter.MovementRepository,
	documentRepo adapter.DocumentRepository,
	config valueobject.MatchingConfig,
	metrics adapter.MetricsRecorder,
) *SuggestMatchesUseCase {
	return &SuggestMatchesUseCase{
		movementRepo: movementRepo,
		documentRepo: documentRepo,
		matcher:      matcher.NewMatcher(config),
		metrics:      metrics,
	}
}

// Execute loads the movement and candidate pool, then scores the pool.
func (uc *SuggestMatchesUseCase) Execute(ctx context.Context, input SuggestMatchesInput) (*SuggestMatchesOutput, error) {
	if err := validateScope(input.OrganizationID, input.MovementID); err != nil {
		return nil, err
	}

	movement, err := uc.movementRepo.FindByID(ctx, input.OrganizationID, input.MovementID)
	if err != nil {
		if errors.Is(err, domainerror.ErrMovementNotFound) {
			return nil, movementNotFound()
		}
		return nil, fmt.Errorf("failed to load movement: %w", err)
	}

	pool, err := uc.documentRepo.ListUnlinked(ctx, input.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlinked documents: %w", err)
	}

	// In re-suggest mode the currently linked document competes with the rest.
	if input.ReSuggest && movement.IsLinked() {
		current, err := uc.documentRepo.FindByID(ctx, input.OrganizationID, *movement.LinkedDocumentID)
		switch {
		case err == nil:
			pool = append([]*entity.Document{current}, pool...)
		case !errors.Is(err, domainerror.ErrDocumentNotFound):
			return nil, fmt.Errorf("failed to load linked document: %w", err)
		}
	}

	candidates, err := uc.matcher.Suggest(movement, pool, matcher.SuggestOptions{AllowLinked: input.ReSuggest})
	if err != nil {
		return nil, err
	}

	for _, candidate := range candidates {
		uc.metrics.IncrSuggestion(string(candidate.Level))
	}

	return &SuggestMatchesOutput{
		MovementID: movement.ID,
		Candidates: candidates,
	}, nil
}
