package importing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/adapter"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// Reasons for records that are not imported.
const (
	ReasonRepeatedInBatch  = "external payment id repeated earlier in the batch"
	ReasonIncompleteRecord = "record is missing amount or date"
)

// ImportPaymentsInput represents a provider payment batch to persist as movements.
type ImportPaymentsInput struct {
	OrganizationID    uuid.UUID
	UserID            uuid.UUID
	Provider          string
	Currency          entity.Currency
	IncludeDuplicates bool // Import flagged duplicates too, for manual review
	Records           []entity.ImportedPaymentRecord
}

// ImportOutcome is the per-record result of an import.
type ImportOutcome struct {
	Index       int
	Imported    bool
	MovementID  *uuid.UUID
	IsDuplicate bool
	Reason      string
}

// ImportPaymentsOutput represents the result of an import.
type ImportPaymentsOutput struct {
	Outcomes       []ImportOutcome
	ImportedCount  int
	DuplicateCount int
	SkippedCount   int
}

// ImportPaymentsUseCase runs duplicate detection and persists the surviving records.
type ImportPaymentsUseCase struct {
	detector            *DetectDuplicatesUseCase
	importedPaymentRepo adapter.ImportedPaymentRepository
	metrics             adapter.MetricsRecorder
}

// NewImportPaymentsUseCase creates a new ImportPaymentsUseCase instance.
func NewImportPaymentsUseCase(
	detector *DetectDuplicatesUseCase,
	importedPaymentRepo adapter.ImportedPaymentRepository,
	metrics adapter.MetricsRecorder,
) *ImportPaymentsUseCase {
	return &ImportPaymentsUseCase{
		detector:            detector,
		importedPaymentRepo: importedPaymentRepo,
		metrics:             metrics,
	}
}

// Execute imports the batch. Every write happens in one SaveImport call.
func (uc *ImportPaymentsUseCase) Execute(ctx context.Context, input ImportPaymentsInput) (*ImportPaymentsOutput, error) {
	if err := validateImportInput(input); err != nil {
		return nil, err
	}

	// The detector enforces the batch limit before any lookup.
	detection, err := uc.detector.Execute(ctx, DetectDuplicatesInput{
		OrganizationID: input.OrganizationID,
		Provider:       input.Provider,
		Records:        input.Records,
	})
	if err != nil {
		return nil, err
	}

	batch := adapter.ImportBatch{
		OrganizationID: input.OrganizationID,
		Provider:       input.Provider,
	}
	output := &ImportPaymentsOutput{
		Outcomes:       make([]ImportOutcome, len(input.Records)),
		DuplicateCount: detection.DuplicateCount,
	}
	claimedIDs := make(map[string]struct{})

	for i, result := range detection.Results {
		record := result.Record
		outcome := ImportOutcome{Index: i, IsDuplicate: result.IsDuplicate, Reason: result.Reason}

		switch {
		case result.IsDuplicate && !input.IncludeDuplicates:
			// Skipped with the detector's reason.
		case record.Amount == nil || record.IssueDate == nil:
			outcome.Reason = ReasonIncompleteRecord
		case record.HasExternalID() && isClaimed(claimedIDs, record.ExternalPaymentID):
			outcome.Reason = ReasonRepeatedInBatch
		default:
			movement := movementFromRecord(input, record)
			batch.Movements = append(batch.Movements, movement)
			// A payment already on file keeps its original movement in the index.
			if record.HasExternalID() && result.Reason != valueobject.ReasonDuplicateExternalID {
				claimedIDs[record.ExternalPaymentID] = struct{}{}
				batch.Payments = append(batch.Payments, adapter.ImportedPaymentEntry{
					ExternalPaymentID: record.ExternalPaymentID,
					MovementID:        movement.ID,
				})
			}
			id := movement.ID
			outcome.Imported = true
			outcome.MovementID = &id
		}

		if outcome.Imported {
			output.ImportedCount++
		} else {
			output.SkippedCount++
		}
		output.Outcomes[i] = outcome
	}

	if len(batch.Movements) > 0 {
		if err := uc.importedPaymentRepo.SaveImport(ctx, batch); err != nil {
			if errors.Is(err, domainerror.ErrPaymentAlreadyImported) {
				return nil, domainerror.NewImportError(
					domainerror.ErrCodeImportConcurrent,
					"a concurrent import recorded the same payment, retry",
					domainerror.ErrPaymentAlreadyImported,
				)
			}
			return nil, fmt.Errorf("failed to save import: %w", err)
		}
	}
	uc.metrics.AddImported(output.ImportedCount)

	slog.Info("payment import finished",
		"organization_id", input.OrganizationID,
		"provider", input.Provider,
		"records", len(input.Records),
		"imported", output.ImportedCount,
		"duplicates", output.DuplicateCount,
		"skipped", output.SkippedCount,
	)

	return output, nil
}

func validateImportInput(input ImportPaymentsInput) error {
	if input.OrganizationID == uuid.Nil {
		return domainerror.NewImportError(
			domainerror.ErrCodeImportMissingOrganization,
			"organization id is required",
			domainerror.ErrInvalidInput,
		)
	}
	if input.Provider == "" {
		return domainerror.NewImportError(
			domainerror.ErrCodeImportMissingProvider,
			"provider is required",
			domainerror.ErrMissingProvider,
		)
	}
	if !input.Currency.IsValid() {
		return domainerror.NewImportError(
			domainerror.ErrCodeImportInvalidCurrency,
			"currency must be one of ARS, USD, EUR",
			domainerror.ErrUnsupportedCurrency,
		)
	}
	if len(input.Records) == 0 {
		return domainerror.NewImportError(
			domainerror.ErrCodeImportEmptyBatch,
			"at least one record is required",
			domainerror.ErrEmptyImportBatch,
		)
	}
	return nil
}

func isClaimed(claimed map[string]struct{}, externalID string) bool {
	_, ok := claimed[externalID]
	return ok
}

// movementFromRecord builds an unlinked movement. Negative amounts are expenses.
func movementFromRecord(input ImportPaymentsInput, record entity.ImportedPaymentRecord) *entity.Movement {
	movementType := entity.MovementTypeIncome
	if record.Amount.IsNegative() {
		movementType = entity.MovementTypeExpense
	}

	date := record.IssueDate
	issueDate := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	var description string
	if record.Description != nil {
		description = *record.Description
	}

	movement := entity.NewMovement(
		input.OrganizationID,
		input.UserID,
		movementType,
		*record.Amount,
		issueDate,
		description,
		input.Currency,
	)
	if record.Counterparty != nil {
		movement.CounterpartyName = *record.Counterparty
	}
	movement.PaymentMethod = record.PaymentMethod
	movement.Source = input.Provider
	return movement
}
