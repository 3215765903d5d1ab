package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Anurag-933/simplebank/internal/apperrors"
	"github.com/Anurag-933/simplebank/internal/core/domain"
	portssvc "github.com/Anurag-933/simplebank/internal/core/ports/services"
	"github.com/Anurag-933/simplebank/internal/dto"
	"github.com/Anurag-933/simplebank/internal/middleware"
)

// reviewHandler handles reviewer-facing requests: the pending queue,
// approve/reject decisions and account inspection.
type reviewHandler struct {
	transactionService portssvc.TransactionSvcFacade
	reportingService   portssvc.ReportingService
}

// newReviewHandler creates a new reviewHandler.
func newReviewHandler(ts portssvc.TransactionSvcFacade, rs portssvc.ReportingService) *reviewHandler {
	return &reviewHandler{
		transactionService: ts,
		reportingService:   rs,
	}
}

// registerReviewRoutes registers reviewer routes. The group must carry the
// reviewer gate middleware.
func registerReviewRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, reportingService portssvc.ReportingService) {
	h := newReviewHandler(transactionService, reportingService)

	review := rg.Group("/review", middleware.RequireReviewer())
	{
		review.GET("/pending", h.listPending)
		review.POST("/transactions/:transactionID/approve", h.approveTransaction)
		review.POST("/transactions/:transactionID/reject", h.rejectTransaction)
		review.GET("/transactions", h.listAllTransactions)
		review.GET("/accounts/search", h.searchAccount)
		review.GET("/accounts/:accountID/transactions", h.listAccountTransactions)
	}
}

// listPending godoc
// @Summary List pending transactions
// @Description Retrieves all transactions awaiting review, oldest first.
// @Tags review
// @Produce json
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /review/pending [get]
func (h *reviewHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txns, err := h.transactionService.ListPending(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list pending transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve pending transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns))
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Description Approves a pending transaction and applies its amount to the account balance. A withdrawal without sufficient funds is automatically rejected instead.
// @Tags review
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.ResolveTransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /review/transactions/{transactionID}/approve [post]
func (h *reviewHandler) approveTransaction(c *gin.Context) {
	h.resolveTransaction(c, domain.DecisionApprove)
}

// rejectTransaction godoc
// @Summary Reject a pending transaction
// @Description Rejects a pending transaction. The account balance is unchanged.
// @Tags review
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.ResolveTransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /review/transactions/{transactionID}/reject [post]
func (h *reviewHandler) rejectTransaction(c *gin.Context) {
	h.resolveTransaction(c, domain.DecisionReject)
}

func (h *reviewHandler) resolveTransaction(c *gin.Context, decision domain.ReviewDecision) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	reviewerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.transactionService.Resolve(c.Request.Context(), transactionID, decision, reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
		case errors.Is(err, apperrors.ErrNotPending):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Transaction is already resolved"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to resolve transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToResolveTransactionResponse(result))
}

// listAllTransactions godoc
// @Summary List recent transactions across all accounts
// @Description Retrieves recent transactions for every account, newest first.
// @Tags review
// @Produce json
// @Param limit query int false "Maximum number of transactions to return (default 200)"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /review/transactions [get]
func (h *reviewHandler) listAllTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	txns, err := h.transactionService.ListAll(c.Request.Context(), params.Limit)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns))
}

// searchAccount godoc
// @Summary Search for an account
// @Description Looks up an account by exact account number, username or holder name.
// @Tags review
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} dto.AccountSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /review/accounts/search [get]
func (h *reviewHandler) searchAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.reportingService.SearchAccount(c.Request.Context(), c.Query("q"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
		default:
			logger.Error("Failed to search account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to search account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountSummaryResponse(summary))
}

// listAccountTransactions godoc
// @Summary List transactions of a specific account
// @Description Retrieves transactions for the given account, newest first.
// @Tags review
// @Produce json
// @Param accountID path string true "Account ID"
// @Param limit query int false "Maximum number of transactions to return"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /review/accounts/{accountID}/transactions [get]
func (h *reviewHandler) listAccountTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	txns, err := h.transactionService.ListByAccount(c.Request.Context(), accountID, params.Limit)
	if err != nil {
		logger.Error("Failed to list account transactions", slog.String("account_id", accountID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns))
}
