// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mycfo/backend/internal/application/usecase/reconciliation"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/integration/entrypoint/dto"
	"github.com/mycfo/backend/internal/integration/entrypoint/middleware"
)

// ReconciliationController handles movement-to-document reconciliation endpoints.
type ReconciliationController struct {
	suggestMatchesUseCase *reconciliation.SuggestMatchesUseCase
	linkUseCase           *reconciliation.LinkUseCase
	unlinkUseCase         *reconciliation.UnlinkUseCase
	getSummaryUseCase     *reconciliation.GetSummaryUseCase
	getPendingUseCase     *reconciliation.GetPendingUseCase
	getLinkedUseCase      *reconciliation.GetLinkedUseCase
	triggerUseCase        *reconciliation.TriggerReconciliationUseCase
}

// NewReconciliationController creates a new reconciliation controller instance.
func NewReconciliationController(
	suggestMatchesUseCase *reconciliation.SuggestMatchesUseCase,
	linkUseCase *reconciliation.LinkUseCase,
	unlinkUseCase *reconciliation.UnlinkUseCase,
	getSummaryUseCase *reconciliation.GetSummaryUseCase,
	getPendingUseCase *reconciliation.GetPendingUseCase,
	getLinkedUseCase *reconciliation.GetLinkedUseCase,
	triggerUseCase *reconciliation.TriggerReconciliationUseCase,
) *ReconciliationController {
	return &ReconciliationController{
		suggestMatchesUseCase: suggestMatchesUseCase,
		linkUseCase:           linkUseCase,
		unlinkUseCase:         unlinkUseCase,
		getSummaryUseCase:     getSummaryUseCase,
		getPendingUseCase:     getPendingUseCase,
		getLinkedUseCase:      getLinkedUseCase,
		triggerUseCase:        triggerUseCase,
	}
}

// Suggest handles GET /movements/:id/suggestions requests.
func (c *ReconciliationController) Suggest(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	movementID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid movement ID format",
			Code:  string(domainerror.ErrCodeInvalidMovementID),
		})
		return
	}

	reSuggest := false
	if raw := ctx.Query("re_suggest"); raw != "" {
		reSuggest, err = strconv.ParseBool(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "re_suggest must be true or false",
			})
			return
		}
	}

	output, err := c.suggestMatchesUseCase.Execute(ctx.Request.Context(), reconciliation.SuggestMatchesInput{
		OrganizationID: orgID,
		MovementID:     movementID,
		ReSuggest:      reSuggest,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSuggestionsResponse(output.MovementID, output.Candidates))
}

// Link handles POST /reconciliation/link requests.
func (c *ReconciliationController) Link(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.LinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	movementID, err := uuid.Parse(req.MovementID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid movement ID format",
			Code:  string(domainerror.ErrCodeInvalidMovementID),
		})
		return
	}
	documentID, err := uuid.Parse(req.DocumentID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid document ID format",
			Code:  string(domainerror.ErrCodeInvalidDocumentID),
		})
		return
	}

	output, err := c.linkUseCase.Execute(ctx.Request.Context(), reconciliation.LinkInput{
		OrganizationID: orgID,
		MovementID:     movementID,
		DocumentID:     documentID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.LinkResponse{
		MovementID:          output.MovementID.String(),
		DocumentID:          output.DocumentID.String(),
		AlreadyLinked:       output.AlreadyLinked,
		ReconciliationState: string(output.ReconciliationState),
	})
}

// Unlink handles POST /reconciliation/unlink requests.
func (c *ReconciliationController) Unlink(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.UnlinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	movementID, err := uuid.Parse(req.MovementID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid movement ID format",
			Code:  string(domainerror.ErrCodeInvalidMovementID),
		})
		return
	}

	output, err := c.unlinkUseCase.Execute(ctx.Request.Context(), reconciliation.UnlinkInput{
		OrganizationID: orgID,
		MovementID:     movementID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.UnlinkResponse{
		MovementID:          output.MovementID.String(),
		WasLinked:           output.WasLinked,
		ReconciliationState: string(output.ReconciliationState),
	})
}

// GetSummary handles GET /reconciliation/summary requests.
func (c *ReconciliationController) GetSummary(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	output, err := c.getSummaryUseCase.Execute(ctx.Request.Context(), reconciliation.GetSummaryInput{
		OrganizationID: orgID,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSummaryResponse(*output))
}

// GetPending handles GET /reconciliation/pending requests.
func (c *ReconciliationController) GetPending(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	limit, offset := parsePage(ctx)
	output, err := c.getPendingUseCase.Execute(ctx.Request.Context(), reconciliation.GetPendingInput{
		OrganizationID: orgID,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToPendingResponse(output))
}

// GetLinked handles GET /reconciliation/linked requests.
func (c *ReconciliationController) GetLinked(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	limit, offset := parsePage(ctx)
	output, err := c.getLinkedUseCase.Execute(ctx.Request.Context(), reconciliation.GetLinkedInput{
		OrganizationID: orgID,
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLinkedResponse(output))
}

// Trigger handles POST /reconciliation/trigger requests.
func (c *ReconciliationController) Trigger(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.TriggerReconciliationRequest
	_ = ctx.ShouldBindJSON(&req) // Body is optional

	input := reconciliation.TriggerReconciliationInput{OrganizationID: orgID}
	if req.MovementID != nil {
		movementID, err := uuid.Parse(*req.MovementID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid movement ID format",
				Code:  string(domainerror.ErrCodeInvalidMovementID),
			})
			return
		}
		input.MovementID = &movementID
	}

	output, err := c.triggerUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleReconciliationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTriggerReconciliationResponse(output))
}

// parsePage reads limit and offset query parameters. Invalid values fall back to defaults.
func parsePage(ctx *gin.Context) (int, int) {
	limit, offset := 0, 0
	if limitStr := ctx.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetStr := ctx.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

// handleReconciliationError handles reconciliation errors and returns appropriate HTTP responses.
func (c *ReconciliationController) handleReconciliationError(ctx *gin.Context, err error) {
	var recErr *domainerror.ReconciliationError
	if errors.As(err, &recErr) {
		ctx.JSON(c.getStatusCodeForReconciliationError(recErr.Code), dto.ErrorResponse{
			Error: recErr.Message,
			Code:  string(recErr.Code),
		})
		return
	}

	respondInternalError(ctx, err)
}

// getStatusCodeForReconciliationError maps error codes to HTTP status codes.
func (c *ReconciliationController) getStatusCodeForReconciliationError(code domainerror.ReconciliationErrorCode) int {
	switch code {
	case domainerror.ErrCodeMissingOrganization,
		domainerror.ErrCodeMissingMovement,
		domainerror.ErrCodeLinkedMovement,
		domainerror.ErrCodeInvalidMovementID,
		domainerror.ErrCodeInvalidDocumentID:
		return http.StatusBadRequest
	case domainerror.ErrCodeMovementNotFound,
		domainerror.ErrCodeDocumentNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeMovementLinkedElsewhere,
		domainerror.ErrCodeDocumentLinkedElsewhere,
		domainerror.ErrCodeLinkRace:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondUnauthenticated(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "User not authenticated",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}

// respondInternalError hides store failures from clients; the detail goes to the log.
func respondInternalError(ctx *gin.Context, err error) {
	slog.Error("request failed",
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
		"error", err,
	)
	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}
