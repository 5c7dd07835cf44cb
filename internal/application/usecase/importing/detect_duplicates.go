// Package importing contains payment import and duplicate detection use cases.
package importing

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// Metric labels for flagged duplicates.
const (
	duplicateByExternalID = "external_id"
	duplicateByContent    = "content"
)

// DetectDuplicatesInput represents a batch of imported payments to check.
type DetectDuplicatesInput struct {
	OrganizationID uuid.UUID
	Provider       string
	Records        []entity.ImportedPaymentRecord
}

// DetectDuplicatesOutput holds one verdict per input record, in input order.
type DetectDuplicatesOutput struct {
	Results        []valueobject.DuplicateResult
	DuplicateCount int
}

// DetectDuplicatesUseCase flags imported payments that were already recorded.
// It only reads; callers decide what to do with flagged records.
type DetectDuplicatesUseCase struct {
	movementRepo        adapter.MovementRepository
	importedPaymentRepo adapter.ImportedPaymentRepository
	metrics             adapter.MetricsRecorder
	maxBatchSize        int
}

// NewDetectDuplicatesUseCase creates a new DetectDuplicatesUseCase instance.
func NewDetectDuplicatesUseCase(
	movementRepo adapter.MovementRepository,
	importedPaymentRepo adapter.ImportedPaymentRepository,
	metrics adapter.MetricsRecorder,
	maxBatchSize int,
) *DetectDuplicatesUseCase {
	return &DetectDuplicatesUseCase{
		movementRepo:        movementRepo,
		importedPaymentRepo: importedPaymentRepo,
		metrics:             metrics,
		maxBatchSize:        maxBatchSize,
	}
}

// Execute checks every record first by external payment id, then by content key.
func (uc *DetectDuplicatesUseCase) Execute(ctx context.Context, input DetectDuplicatesInput) (*DetectDuplicatesOutput, error) {
	if input.OrganizationID == uuid.Nil {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportMissingOrganization,
			"organization id is required",
			domainerror.ErrInvalidInput,
		)
	}
	if uc.maxBatchSize > 0 && len(input.Records) > uc.maxBatchSize {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportBatchTooLarge,
			fmt.Sprintf("a batch holds at most %d records", uc.maxBatchSize),
			domainerror.ErrImportBatchTooLarge,
		)
	}

	externalIDs := distinctExternalIDs(input.Records)
	if len(externalIDs) > 0 && input.Provider == "" {
		return nil, domainerror.NewImportError(
			domainerror.ErrCodeImportMissingProvider,
			"provider is required to check external payment ids",
			domainerror.ErrMissingProvider,
		)
	}
	days := distinctIssueDays(input.Records)

	// The two lookups are independent: the movement query is bounded by the batch days only.
	var (
		seenIDs      map[string]bool
		existingKeys map[valueobject.DuplicateKey]struct{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(externalIDs) == 0 {
			return nil
		}
		found, err := uc.importedPaymentRepo.FindExisting(gctx, input.OrganizationID, input.Provider, externalIDs)
		if err != nil {
			return fmt.Errorf("failed to find imported payments: %w", err)
		}
		seenIDs = found
		return nil
	})
	g.Go(func() error {
		if len(days) == 0 {
			return nil
		}
		movements, err := uc.movementRepo.ListByIssueDays(gctx, input.OrganizationID, days)
		if err != nil {
			return fmt.Errorf("failed to list movements by issue day: %w", err)
		}
		existingKeys = make(map[valueobject.DuplicateKey]struct{}, len(movements))
		for _, movement := range movements {
			if movement.OrganizationID != input.OrganizationID {
				continue
			}
			existingKeys[valueobject.KeyForMovement(movement)] = struct{}{}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	output := &DetectDuplicatesOutput{
		Results: make([]valueobject.DuplicateResult, len(input.Records)),
	}
	for i, record := range input.Records {
		result := valueobject.DuplicateResult{Index: i, Record: record}

		if record.HasExternalID() && seenIDs[record.ExternalPaymentID] {
			result.IsDuplicate = true
			result.Reason = valueobject.ReasonDuplicateExternalID
			uc.metrics.IncrDuplicate(duplicateByExternalID)
		} else if _, ok := existingKeys[valueobject.KeyForRecord(record)]; ok {
			result.IsDuplicate = true
			result.Reason = valueobject.ReasonDuplicateContent
			uc.metrics.IncrDuplicate(duplicateByContent)
		}

		if result.IsDuplicate {
			output.DuplicateCount++
		}
		output.Results[i] = result
	}

	return output, nil
}

func distinctExternalIDs(records []entity.ImportedPaymentRecord) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0, len(records))
	for _, record := range records {
		if !record.HasExternalID() {
			continue
		}
		if _, ok := seen[record.ExternalPaymentID]; ok {
			continue
		}
		seen[record.ExternalPaymentID] = struct{}{}
		ids = append(ids, record.ExternalPaymentID)
	}
	return ids
}

// distinctIssueDays returns the sorted set of days present in the batch.
// Records without a date cannot match a stored movement and add no day.
func distinctIssueDays(records []entity.ImportedPaymentRecord) []string {
	seen := make(map[string]struct{})
	for _, record := range records {
		if record.IssueDate == nil {
			continue
		}
		seen[valueobject.FormatDay(*record.IssueDate)] = struct{}{}
	}
	days := make([]string, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}
