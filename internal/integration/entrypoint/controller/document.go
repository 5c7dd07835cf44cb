package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mycfo/backend/internal/application/usecase/document"
	"github.com/mycfo/backend/internal/domain/entity"
	domainerror "github.com/mycfo/backend/internal/domain/error"
	"github.com/mycfo/backend/internal/integration/entrypoint/dto"
	"github.com/mycfo/backend/internal/integration/entrypoint/middleware"
)

// DocumentController handles document endpoints.
type DocumentController struct {
	createDocumentUseCase *document.CreateDocumentUseCase
}

// NewDocumentController creates a new document controller instance.
func NewDocumentController(createDocumentUseCase *document.CreateDocumentUseCase) *DocumentController {
	return &DocumentController{
		createDocumentUseCase: createDocumentUseCase,
	}
}

// Create handles POST /documents requests.
func (c *DocumentController) Create(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}
	userID, _ := middleware.GetUserIDFromContext(ctx)

	var req dto.CreateDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	issueDate, ok := req.ParseIssueDate()
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid issue date format, expected YYYY-MM-DD",
		})
		return
	}

	invoice, note, receipt := req.PartiesToEntity()
	output, err := c.createDocumentUseCase.Execute(ctx.Request.Context(), document.CreateDocumentInput{
		OrganizationID: orgID,
		UserID:         userID,
		Type:           entity.DocumentType(req.DocumentType),
		Flow:           entity.DocumentFlow(req.Flow),
		Number:         req.DocumentNumber,
		IssueDate:      issueDate,
		TotalAmount:    req.TotalAmount,
		Currency:       entity.Currency(req.Currency),
		Category:       req.Category,
		Invoice:        invoice,
		PromissoryNote: note,
		Receipt:        receipt,
	})
	if err != nil {
		c.handleDocumentError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToDocumentResponse(output.Document))
}

// handleDocumentError handles document errors and returns appropriate HTTP responses.
func (c *DocumentController) handleDocumentError(ctx *gin.Context, err error) {
	var docErr *domainerror.DocumentError
	if errors.As(err, &docErr) {
		status := http.StatusBadRequest
		if docErr.Code == domainerror.ErrCodeDocumentNumberExists {
			status = http.StatusConflict
		}
		ctx.JSON(status, dto.ErrorResponse{
			Error: docErr.Message,
			Code:  string(docErr.Code),
		})
		return
	}

	respondInternalError(ctx, err)
}
