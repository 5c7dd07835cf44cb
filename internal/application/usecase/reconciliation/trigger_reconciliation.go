package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/domain/matcher"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

const (
	// triggerBatchSize caps the movements considered by one run.
	triggerBatchSize = 100
	// maxAutoLinkAttempts bounds re-suggesting after a document is lost to a concurrent link.
	maxAutoLinkAttempts = 3
)

// TriggerReconciliationInput represents the input for an auto reconciliation run.
type TriggerReconciliationInput struct {
	OrganizationID uuid.UUID
	MovementID     *uuid.UUID // Optional, if nil every pending movement is considered
}

// AutoLinkedOutput is a movement the run linked on its own.
type AutoLinkedOutput struct {
	Movement  *entity.Movement
	Candidate valueobject.MatchCandidate
}

// RequiresSelectionOutput is a movement whose candidates need a human decision.
type RequiresSelectionOutput struct {
	Movement   *entity.Movement
	Candidates []valueobject.MatchCandidate
}

// TriggerReconciliationOutput represents the result of an auto reconciliation run.
type TriggerReconciliationOutput struct {
	AutoLinked        []AutoLinkedOutput
	RequiresSelection []RequiresSelectionOutput
	NoMatch           []*entity.Movement
	Summary           ReconciliationResultSummary
}

// ReconciliationResultSummary contains the counts of one run.
type ReconciliationResultSummary struct {
	AutoLinked        int
	RequiresSelection int
	NoMatch           int
	Skipped           int // Linked by someone else while the run was going
}

// TriggerReconciliationUseCase links pending movements whose best document is an
// unambiguous HIGH match, and sorts the rest into needs-selection and no-match.
type TriggerReconciliationUseCase struct {
	movementRepo       adapter.MovementRepository
	documentRepo       adapter.DocumentRepository
	reconciliationRepo adapter.ReconciliationRepository
	matcher            *matcher.Matcher
	metrics            adapter.MetricsRecorder
}

// NewTriggerReconciliationUseCase creates a new TriggerReconciliationUseCase instance.
func NewTriggerReconciliationUseCase(
	movementRepo adapter.MovementRepository,
	documentRepo adapter.DocumentRepository,
	reconciliationRepo adapter.ReconciliationRepository,
	config valueobject.MatchingConfig,
	metrics adapter.MetricsRecorder,
) *TriggerReconciliationUseCase {
	return &TriggerReconciliationUseCase{
		movementRepo:       movementRepo,
		documentRepo:       documentRepo,
		reconciliationRepo: reconciliationRepo,
		matcher:            matcher.NewMatcher(config),
		metrics:            metrics,
	}
}

// Execute runs auto reconciliation over one movement or the oldest pending ones.
func (uc *TriggerReconciliationUseCase) Execute(ctx context.Context, input TriggerReconciliationInput) (*TriggerReconciliationOutput, error) {
	if err := requireOrganization(input.OrganizationID); err != nil {
		return nil, err
	}

	movements, err := uc.movementsToProcess(ctx, input)
	if err != nil {
		return nil, err
	}

	output := &TriggerReconciliationOutput{}
	if len(movements) == 0 {
		return output, nil
	}

	pool, err := uc.documentRepo.ListUnlinked(ctx, input.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlinked documents: %w", err)
	}

	// Documents taken during this run, by us or by a concurrent commit
	taken := make(map[uuid.UUID]bool)

	for _, movement := range movements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := uc.processMovement(ctx, input.OrganizationID, movement, pool, taken)
		if err != nil {
			return nil, err
		}

		switch result.kind {
		case outcomeAutoLinked:
			output.AutoLinked = append(output.AutoLinked, AutoLinkedOutput{
				Movement:  movement,
				Candidate: result.candidates[0],
			})
		case outcomeRequiresSelection:
			output.RequiresSelection = append(output.RequiresSelection, RequiresSelectionOutput{
				Movement:   movement,
				Candidates: result.candidates,
			})
		case outcomeNoMatch:
			output.NoMatch = append(output.NoMatch, movement)
		case outcomeSkipped:
			output.Summary.Skipped++
		}
	}

	output.Summary.AutoLinked = len(output.AutoLinked)
	output.Summary.RequiresSelection = len(output.RequiresSelection)
	output.Summary.NoMatch = len(output.NoMatch)
	uc.metrics.AddAutoLinked(output.Summary.AutoLinked)

	slog.Info("auto reconciliation finished",
		"organization_id", input.OrganizationID,
		"auto_linked", output.Summary.AutoLinked,
		"requires_selection", output.Summary.RequiresSelection,
		"no_match", output.Summary.NoMatch,
		"skipped", output.Summary.Skipped,
	)

	return output, nil
}

func (uc *TriggerReconciliationUseCase) movementsToProcess(ctx context.Context, input TriggerReconciliationInput) ([]*entity.Movement, error) {
	if input.MovementID == nil {
		movements, err := uc.movementRepo.ListUnlinked(ctx, input.OrganizationID, triggerBatchSize, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to list unlinked movements: %w", err)
		}
		return movements, nil
	}

	if err := validateScope(input.OrganizationID, *input.MovementID); err != nil {
		return nil, err
	}
	movement, err := uc.movementRepo.FindByID(ctx, input.OrganizationID, *input.MovementID)
	if err != nil {
		if errors.Is(err, domainerror.ErrMovementNotFound) {
			return nil, movementNotFound()
		}
		return nil, fmt.Errorf("failed to load movement: %w", err)
	}
	// Already linked, nothing to do
	if movement.IsLinked() {
		return nil, nil
	}
	return []*entity.Movement{movement}, nil
}

type outcomeKind int

const (
	outcomeNoMatch outcomeKind = iota
	outcomeRequiresSelection
	outcomeAutoLinked
	outcomeSkipped
)

// movementOutcome is the result of processing one movement. For an auto link the
// linked candidate is first.
type movementOutcome struct {
	kind       outcomeKind
	candidates []valueobject.MatchCandidate
}

// processMovement scores the movement against the documents still free in this run and
// links it when exactly one candidate reaches HIGH. A document lost to a concurrent
// link is dropped and the movement is scored again.
func (uc *TriggerReconciliationUseCase) processMovement(
	ctx context.Context,
	organizationID uuid.UUID,
	movement *entity.Movement,
	pool []*entity.Document,
	taken map[uuid.UUID]bool,
) (movementOutcome, error) {
	for attempt := 0; ; attempt++ {
		candidates, err := uc.matcher.Suggest(movement, available(pool, taken), matcher.SuggestOptions{})
		if err != nil {
			return movementOutcome{}, err
		}
		if len(candidates) == 0 {
			return movementOutcome{kind: outcomeNoMatch}, nil
		}

		best, ok := unambiguousHigh(candidates)
		if !ok || attempt == maxAutoLinkAttempts {
			return movementOutcome{kind: outcomeRequiresSelection, candidates: candidates}, nil
		}

		err = uc.reconciliationRepo.Link(ctx, organizationID, movement.ID, best.Document.ID)
		switch {
		case err == nil:
			taken[best.Document.ID] = true
			movement.LinkTo(best.Document.ID)
			return movementOutcome{kind: outcomeAutoLinked, candidates: candidates}, nil

		case errors.Is(err, domainerror.ErrMovementAlreadyLinked):
			return movementOutcome{kind: outcomeSkipped}, nil

		case errors.Is(err, domainerror.ErrDocumentAlreadyLinked),
			errors.Is(err, domainerror.ErrLinkConflict):
			uc.metrics.IncrLinkConflict()
			slog.Warn("auto link lost, suggesting again",
				"organization_id", organizationID,
				"movement_id", movement.ID,
				"document_id", best.Document.ID,
				"error", err,
			)
			taken[best.Document.ID] = true

		default:
			return movementOutcome{}, fmt.Errorf("failed to link movement: %w", err)
		}
	}
}

// unambiguousHigh returns the top candidate when it is the only HIGH one.
func unambiguousHigh(candidates []valueobject.MatchCandidate) (valueobject.MatchCandidate, bool) {
	if candidates[0].Level != valueobject.SuggestionLevelHigh {
		return valueobject.MatchCandidate{}, false
	}
	if len(candidates) > 1 && candidates[1].Level == valueobject.SuggestionLevelHigh {
		return valueobject.MatchCandidate{}, false
	}
	return candidates[0], true
}

func available(pool []*entity.Document, taken map[uuid.UUID]bool) []*entity.Document {
	if len(taken) == 0 {
		return pool
	}
	free := make([]*entity.Document, 0, len(pool))
	for _, doc := range pool {
		if !taken[doc.ID] {
			free = append(free, doc)
		}
	}
	return free
}
