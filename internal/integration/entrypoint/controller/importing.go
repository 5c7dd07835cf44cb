package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mycfo/backend/internal/application/usecase/importing"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/integration/entrypoint/dto"
	"github.com/mycfo/backend/internal/integration/entrypoint/middleware"
)

// ImportController handles provider payment import endpoints.
type ImportController struct {
	detectDuplicatesUseCase *importing.DetectDuplicatesUseCase
	importPaymentsUseCase   *importing.ImportPaymentsUseCase
}

// NewImportController creates a new import controller instance.
func NewImportController(
	detectDuplicatesUseCase *importing.DetectDuplicatesUseCase,
	importPaymentsUseCase *importing.ImportPaymentsUseCase,
) *ImportController {
	return &ImportController{
		detectDuplicatesUseCase: detectDuplicatesUseCase,
		importPaymentsUseCase:   importPaymentsUseCase,
	}
}

// Check handles POST /imports/payments/check requests.
// It flags duplicates without writing anything.
func (c *ImportController) Check(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	var req dto.CheckPaymentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.detectDuplicatesUseCase.Execute(ctx.Request.Context(), importing.DetectDuplicatesInput{
		OrganizationID: orgID,
		Provider:       req.Provider,
		Records:        dto.RecordsToEntity(req.Records),
	})
	if err != nil {
		c.handleImportError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCheckPaymentsResponse(output.Results, output.DuplicateCount))
}

// Import handles POST /imports/payments requests.
func (c *ImportController) Import(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(ctx)

	var req dto.ImportPaymentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	currency := entity.Currency(req.Currency)
	if currency == "" {
		currency = entity.CurrencyARS
	}

	output, err := c.importPaymentsUseCase.Execute(ctx.Request.Context(), importing.ImportPaymentsInput{
		OrganizationID:    orgID,
		UserID:            userID,
		Provider:          req.Provider,
		Currency:          currency,
		IncludeDuplicates: req.IncludeDuplicates,
		Records:           dto.RecordsToEntity(req.Records),
	})
	if err != nil {
		c.handleImportError(ctx, err)
		return
	}

	status := http.StatusOK
	if output.ImportedCount > 0 {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.ToImportPaymentsResponse(output))
}

// handleImportError handles import errors and returns appropriate HTTP responses.
func (c *ImportController) handleImportError(ctx *gin.Context, err error) {
	var impErr *domainerror.ImportError
	if errors.As(err, &impErr) {
		ctx.JSON(c.getStatusCodeForImportError(impErr.Code), dto.ErrorResponse{
			Error: impErr.Message,
			Code:  string(impErr.Code),
		})
		return
	}

	respondInternalError(ctx, err)
}

// getStatusCodeForImportError maps error codes to HTTP status codes.
func (c *ImportController) getStatusCodeForImportError(code domainerror.ImportErrorCode) int {
	switch code {
	case domainerror.ErrCodeImportMissingOrganization,
		domainerror.ErrCodeImportEmptyBatch,
		domainerror.ErrCodeImportMissingProvider,
		domainerror.ErrCodeImportInvalidCurrency:
		return http.StatusBadRequest
	case domainerror.ErrCodeImportBatchTooLarge:
		return http.StatusRequestEntityTooLarge
	case domainerror.ErrCodeImportConcurrent:
		return http.StatusConflict
	case domainerror.ErrCodeImportRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
