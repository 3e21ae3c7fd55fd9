package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/stockledger/internal/adapters/http/handlers"
	"github.com/rafaelleal24/stockledger/internal/core/dto"
	"github.com/rafaelleal24/stockledger/internal/core/service"
	"github.com/rafaelleal24/stockledger/internal/core/serviceerrors"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type TransactionController struct {
	ledger      *service.LedgerService
	recentLimit int
}

func NewTransactionController(ledger *service.LedgerService, recentLimit int) *TransactionController {
	return &TransactionController{ledger: ledger, recentLimit: recentLimit}
}

// RecordTransaction godoc
// @Summary     Record a stock movement
// @Description Adds stock or sells it. A sell larger than the stock fails with the available quantity.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header   string                       false "Retries with the same key are applied once"
// @Param       request         body     dto.RecordTransactionRequest true  "Movement"
// @Success     200             {object} MovementResponse
// @Failure     400             {object} handlers.ErrorResponse
// @Failure     404             {object} handlers.ErrorResponse
// @Failure     409             {object} handlers.ErrorResponse
// @Failure     429             {object} handlers.ErrorResponse
// @Failure     500             {object} handlers.ErrorResponse
// @Router      /api/v1/transactions [post]
func (tc *TransactionController) RecordTransaction(c *gin.Context) {
	var request dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}

	product, err := tc.ledger.RecordTransactionOnce(c.Request.Context(), c.GetHeader(IdempotencyKeyHeader), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MovementResponse{Success: true, Product: NewProductResponse(product)})
}

// GetRecent godoc
// @Summary     Recent transactions
// @Description Returns the last N transactions, oldest first
// @Tags        transactions
// @Produce     json
// @Param       limit query    int false "Number of transactions" minimum(1)
// @Success     200   {array}  TransactionResponse
// @Failure     400   {object} handlers.ErrorResponse
// @Router      /api/v1/transactions [get]
func (tc *TransactionController) GetRecent(c *gin.Context) {
	limit := tc.recentLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			handlers.HandleError(c, serviceerrors.NewValidationError("limit"))
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, NewTransactionListResponse(tc.ledger.RecentTransactions(c.Request.Context(), limit)))
}

// GetAll godoc
// @Summary     Full transaction log
// @Tags        transactions
// @Produce     json
// @Success     200 {array} TransactionResponse
// @Router      /api/v1/transactions/all [get]
func (tc *TransactionController) GetAll(c *gin.Context) {
	c.JSON(http.StatusOK, NewTransactionListResponse(tc.ledger.AllTransactions(c.Request.Context())))
}
