package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cardledger/card_ledger_app/internal/apperrors"
	portssvc "github.com/cardledger/card_ledger_app/internal/core/ports/services"
	"github.com/cardledger/card_ledger_app/internal/core/validation"
	"github.com/cardledger/card_ledger_app/internal/dto"
	"github.com/cardledger/card_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// TransactionHandler handles HTTP requests related to transactions.
type TransactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService portssvc.TransactionSvcFacade) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// bindingErrorMessages extracts per-field messages from a gin binding error.
func bindingErrorMessages(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, len(verrs))
		for i, fe := range verrs {
			msgs[i] = fmt.Sprintf("field %s failed on the %s rule", fe.Field(), fe.Tag())
		}
		return msgs
	}
	return []string{"invalid request format"}
}

// CreateTransaction godoc
// @Summary Record a new card transaction
// @Description Validates and records a transaction, returning the assigned identifier and the balance snapshot
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction to record"
// @Success 201 {object} dto.CreateTransactionResponse
// @Failure 400 {object} map[string]string "Validation failure"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Confirmation required or identifier conflict"
// @Failure 500 {object} map[string]string "Failed to record transaction"
// @Security BearerAuth
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrorMessages(err)})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.transactionService.AddTransaction(c.Request.Context(), req, creatorUserID)
	if err != nil {
		h.respondAddError(c, logger, err)
		return
	}

	logger.Info("Transaction created", slog.String("transaction_id", resp.TransactionID))
	c.JSON(http.StatusCreated, resp)
}

func (h *TransactionHandler) respondAddError(c *gin.Context, logger *slog.Logger, err error) {
	var failure *validation.Failure
	switch {
	case errors.As(err, &failure):
		if failure.Kind == validation.KindConfirmationRequired {
			logger.Info("Transaction awaiting confirmation")
			c.JSON(http.StatusConflict, gin.H{
				"failureKind": failure.Kind,
				"error":       failure.Message,
			})
			return
		}
		logger.Warn("Validation failure recording transaction", slog.String("kind", string(failure.Kind)), slog.String("error", failure.Message))
		c.JSON(http.StatusBadRequest, gin.H{
			"failureKind": failure.Kind,
			"field":       failure.Field,
			"error":       failure.Message,
		})
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Transaction identifier conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "Transaction identifier conflict, please retry"})
	default:
		logger.Error("Failed to record transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
	}
}

// ListTransactions godoc
// @Summary List transactions
// @Description Returns one page of transactions matching the filter, with paging metadata and the page amount total
// @Tags transactions
// @Produce  json
// @Param   page query int false "Page number (0-based)"
// @Param   pageSize query int false "Page size (1..100)"
// @Param   sortBy query string false "Sort field"
// @Param   sortDir query string false "Sort direction (asc|desc)"
// @Param   transactionID query string false "Exact transaction identifier"
// @Param   cardNumber query string false "Card number"
// @Param   accountID query string false "Account identifier"
// @Param   fromDate query string false "Start date (YYYYMMDD or ISO)"
// @Param   toDate query string false "End date (YYYYMMDD or ISO)"
// @Param   fromAmount query string false "Lower amount bound"
// @Param   toAmount query string false "Upper amount bound"
// @Param   typeCode query string false "Transaction type code"
// @Param   categoryCode query string false "Transaction category code"
// @Param   text query string false "Merchant/description fragment"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string][]string "Filter failures"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"errors": bindingErrorMessages(err)})
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		var failures validation.Failures
		if errors.As(err, &failures) {
			logger.Warn("Filter validation failures for ListTransactions", slog.Int("count", len(failures)))
			c.JSON(http.StatusBadRequest, gin.H{"errors": failures.Messages()})
			return
		}
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a single transaction by its identifier
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction identifier (16 alphanumeric characters)"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Malformed identifier"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		var failure *validation.Failure
		switch {
		case errors.As(err, &failure):
			c.JSON(http.StatusBadRequest, gin.H{
				"failureKind": failure.Kind,
				"field":       failure.Field,
				"error":       failure.Message,
			})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Transaction not found", slog.String("transaction_id", transactionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		default:
			logger.Error("Failed to get transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}

	resp := dto.ToTransactionResponse(txn)
	c.JSON(http.StatusOK, resp)
}
