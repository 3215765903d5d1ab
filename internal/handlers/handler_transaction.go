package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Anurag-933/simplebank/internal/apperrors"
	portssvc "github.com/Anurag-933/simplebank/internal/core/ports/services"
	"github.com/Anurag-933/simplebank/internal/dto"
	"github.com/Anurag-933/simplebank/internal/middleware"
)

// transactionHandler handles customer-facing transaction and account requests.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	accountService     portssvc.AccountSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionSvcFacade, as portssvc.AccountSvcFacade) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		accountService:     as,
	}
}

// registerTransactionRoutes registers customer routes for transactions and accounts.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, accountService portssvc.AccountSvcFacade) {
	h := newTransactionHandler(transactionService, accountService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listMyTransactions)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/me", h.getMyAccount)
	}
}

// createTransaction godoc
// @Summary Request a deposit or withdrawal
// @Description Creates a pending transaction request on the logged-in user's account. A reviewer must approve it before the balance changes.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.transactionService.CreateRequest(c.Request.Context(), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
		default:
			logger.Error("Failed to create transaction request", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create transaction request"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listMyTransactions godoc
// @Summary List the logged-in user's transactions
// @Description Retrieves transactions on the logged-in user's account, newest first.
// @Tags transactions
// @Produce json
// @Param limit query int false "Maximum number of transactions to return"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listMyTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	account, err := h.accountService.GetAccountByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
		} else {
			logger.Error("Failed to get account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve transactions"})
		}
		return
	}

	txns, err := h.transactionService.ListByAccount(c.Request.Context(), account.AccountID, params.Limit)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(txns))
}

// getMyAccount godoc
// @Summary Get the logged-in user's account
// @Description Retrieves the logged-in user's account details and current balance.
// @Tags accounts
// @Produce json
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/me [get]
func (h *transactionHandler) getMyAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	account, err := h.accountService.GetAccountByUserID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
		} else {
			logger.Error("Failed to get account", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
