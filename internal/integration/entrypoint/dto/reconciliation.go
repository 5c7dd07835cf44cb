package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/usecase/reconciliation"
	"github.com/mycfo/backend/internal/domain/entity"
	"github.com/mycfo/backend/internal/domain/valueobject"
)

// MatchCandidateResponse is one ranked document suggestion.
type MatchCandidateResponse struct {
	Document  DocumentResponse `json:"document"`
	Score     int              `json:"score"`
	Level     string           `json:"level"`
	Reasons   []string         `json:"reasons"`
	DaysApart int              `json:"days_apart"`
}

// SuggestionsResponse represents the suggestions for a movement.
type SuggestionsResponse struct {
	MovementID string                   `json:"movement_id"`
	Candidates []MatchCandidateResponse `json:"candidates"`
}

// LinkRequest represents the request body for linking a movement to a document.
type LinkRequest struct {
	MovementID string `json:"movement_id" binding:"required"`
	DocumentID string `json:"document_id" binding:"required"`
}

// LinkResponse represents the response after linking.
type LinkResponse struct {
	MovementID          string `json:"movement_id"`
	DocumentID          string `json:"document_id"`
	AlreadyLinked       bool   `json:"already_linked"`
	ReconciliationState string `json:"reconciliation_state"`
}

// UnlinkRequest represents the request body for unlinking a movement.
type UnlinkRequest struct {
	MovementID string `json:"movement_id" binding:"required"`
}

// UnlinkResponse represents the response after unlinking.
type UnlinkResponse struct {
	MovementID          string `json:"movement_id"`
	WasLinked           bool   `json:"was_linked"`
	ReconciliationState string `json:"reconciliation_state"`
}

// ReconciliationSummaryResponse contains reconciliation counters for the organization.
type ReconciliationSummaryResponse struct {
	LinkedMovements   int64 `json:"linked_movements"`
	UnlinkedMovements int64 `json:"unlinked_movements"`
	UnlinkedDocuments int64 `json:"unlinked_documents"`
}

// MovementResponse represents a movement in reconciliation listings.
type MovementResponse struct {
	ID                  string `json:"id"`
	Type                string `json:"type"`
	Amount              string `json:"amount"`
	Currency            string `json:"currency"`
	IssueDate           string `json:"issue_date"`
	Description         string `json:"description,omitempty"`
	CounterpartyName    string `json:"counterparty_name,omitempty"`
	CounterpartyTaxID   string `json:"counterparty_tax_id,omitempty"`
	Category            string `json:"category,omitempty"`
	ReconciliationState string `json:"reconciliation_state"`
	LinkedDocumentID    string `json:"linked_document_id,omitempty"`
}

// PendingMovementResponse is an unlinked movement with its best suggestion.
type PendingMovementResponse struct {
	Movement       MovementResponse        `json:"movement"`
	BestCandidate  *MatchCandidateResponse `json:"best_candidate"`
	CandidateCount int                     `json:"candidate_count"`
}

// PendingResponse represents a page of pending movements.
type PendingResponse struct {
	PendingMovements []PendingMovementResponse     `json:"pending_movements"`
	Summary          ReconciliationSummaryResponse `json:"summary"`
}

// LinkedPairResponse is a committed link.
type LinkedPairResponse struct {
	Movement         MovementResponse `json:"movement"`
	Document         DocumentResponse `json:"document"`
	LinkedAt         time.Time        `json:"linked_at"`
	AmountDifference string           `json:"amount_difference"`
	HasMismatch      bool             `json:"has_mismatch"`
}

// LinkedResponse represents a page of committed links.
type LinkedResponse struct {
	LinkedPairs []LinkedPairResponse          `json:"linked_pairs"`
	Summary     ReconciliationSummaryResponse `json:"summary"`
}

// TriggerReconciliationRequest represents the optional body of an auto reconciliation run.
type TriggerReconciliationRequest struct {
	MovementID *string `json:"movement_id"`
}

// AutoLinkedResponse is a movement linked by the run.
type AutoLinkedResponse struct {
	Movement  MovementResponse       `json:"movement"`
	Candidate MatchCandidateResponse `json:"candidate"`
}

// RequiresSelectionResponse is a movement left for a human decision.
type RequiresSelectionResponse struct {
	Movement   MovementResponse         `json:"movement"`
	Candidates []MatchCandidateResponse `json:"candidates"`
}

// TriggerReconciliationResponse represents the result of an auto reconciliation run.
type TriggerReconciliationResponse struct {
	AutoLinked        []AutoLinkedResponse        `json:"auto_linked"`
	RequiresSelection []RequiresSelectionResponse `json:"requires_selection"`
	NoMatch           []MovementResponse          `json:"no_match"`
	Summary           TriggerSummaryResponse      `json:"summary"`
}

// TriggerSummaryResponse contains the counts of one run.
type TriggerSummaryResponse struct {
	AutoLinked        int `json:"auto_linked"`
	RequiresSelection int `json:"requires_selection"`
	NoMatch           int `json:"no_match"`
	Skipped           int `json:"skipped"`
}

// ToMovementResponse converts a domain Movement entity to a MovementResponse DTO.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	if m == nil {
		return MovementResponse{}
	}
	response := MovementResponse{
		ID:                  m.ID.String(),
		Type:                string(m.Type),
		Amount:              formatAmount(m.Amount),
		Currency:            string(m.Currency),
		IssueDate:           m.IssueDate.Format(DateLayout),
		Description:         m.Description,
		CounterpartyName:    m.CounterpartyName,
		CounterpartyTaxID:   m.CounterpartyTaxID,
		Category:            m.Category,
		ReconciliationState: string(m.ReconciliationState),
	}
	if m.LinkedDocumentID != nil {
		response.LinkedDocumentID = m.LinkedDocumentID.String()
	}
	return response
}

// ToSummaryResponse converts reconciliation counters to a response DTO.
func ToSummaryResponse(summary reconciliation.GetSummaryOutput) ReconciliationSummaryResponse {
	return ReconciliationSummaryResponse{
		LinkedMovements:   summary.LinkedMovements,
		UnlinkedMovements: summary.UnlinkedMovements,
		UnlinkedDocuments: summary.UnlinkedDocuments,
	}
}

// ToPendingResponse converts a page of pending movements to a response DTO.
func ToPendingResponse(output *reconciliation.GetPendingOutput) PendingResponse {
	response := PendingResponse{
		PendingMovements: make([]PendingMovementResponse, 0, len(output.PendingMovements)),
		Summary:          ToSummaryResponse(output.Summary),
	}
	for _, item := range output.PendingMovements {
		pending := PendingMovementResponse{
			Movement:       ToMovementResponse(item.Movement),
			CandidateCount: item.CandidateCount,
		}
		if item.BestCandidate != nil {
			best := toMatchCandidateResponse(*item.BestCandidate)
			pending.BestCandidate = &best
		}
		response.PendingMovements = append(response.PendingMovements, pending)
	}
	return response
}

// ToLinkedResponse converts a page of committed links to a response DTO.
func ToLinkedResponse(output *reconciliation.GetLinkedOutput) LinkedResponse {
	response := LinkedResponse{
		LinkedPairs: make([]LinkedPairResponse, 0, len(output.LinkedPairs)),
		Summary:     ToSummaryResponse(output.Summary),
	}
	for _, pair := range output.LinkedPairs {
		response.LinkedPairs = append(response.LinkedPairs, LinkedPairResponse{
			Movement:         ToMovementResponse(pair.Movement),
			Document:         ToDocumentResponse(pair.Document),
			LinkedAt:         pair.LinkedAt,
			AmountDifference: formatAmount(pair.AmountDifference),
			HasMismatch:      pair.HasMismatch,
		})
	}
	return response
}

// ToTriggerReconciliationResponse converts the result of a run to a response DTO.
func ToTriggerReconciliationResponse(output *reconciliation.TriggerReconciliationOutput) TriggerReconciliationResponse {
	response := TriggerReconciliationResponse{
		AutoLinked:        make([]AutoLinkedResponse, 0, len(output.AutoLinked)),
		RequiresSelection: make([]RequiresSelectionResponse, 0, len(output.RequiresSelection)),
		NoMatch:           make([]MovementResponse, 0, len(output.NoMatch)),
		Summary: TriggerSummaryResponse{
			AutoLinked:        output.Summary.AutoLinked,
			RequiresSelection: output.Summary.RequiresSelection,
			NoMatch:           output.Summary.NoMatch,
			Skipped:           output.Summary.Skipped,
		},
	}
	for _, item := range output.AutoLinked {
		response.AutoLinked = append(response.AutoLinked, AutoLinkedResponse{
			Movement:  ToMovementResponse(item.Movement),
			Candidate: toMatchCandidateResponse(item.Candidate),
		})
	}
	for _, item := range output.RequiresSelection {
		response.RequiresSelection = append(response.RequiresSelection, RequiresSelectionResponse{
			Movement:   ToMovementResponse(item.Movement),
			Candidates: toMatchCandidateResponses(item.Candidates),
		})
	}
	for _, movement := range output.NoMatch {
		response.NoMatch = append(response.NoMatch, ToMovementResponse(movement))
	}
	return response
}

// ToSuggestionsResponse converts ranked candidates to a response DTO.
func ToSuggestionsResponse(movementID uuid.UUID, candidates []valueobject.MatchCandidate) SuggestionsResponse {
	return SuggestionsResponse{
		MovementID: movementID.String(),
		Candidates: toMatchCandidateResponses(candidates),
	}
}

func toMatchCandidateResponses(candidates []valueobject.MatchCandidate) []MatchCandidateResponse {
	responses := make([]MatchCandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		responses = append(responses, toMatchCandidateResponse(candidate))
	}
	return responses
}

func toMatchCandidateResponse(candidate valueobject.MatchCandidate) MatchCandidateResponse {
	return MatchCandidateResponse{
		Document:  ToDocumentResponse(candidate.Document),
		Score:     candidate.Score,
		Level:     string(candidate.Level),
		Reasons:   candidate.Reasons,
		DaysApart: candidate.DaysApart,
	}
}
