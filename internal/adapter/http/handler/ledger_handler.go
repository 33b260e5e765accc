package handler

import (
	"context"
	"strconv"
	"time"

	"solafi-wallet-core/internal/adapter/http/dto"
	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"
	"solafi-wallet-core/pkg/apperror"
	"solafi-wallet-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LedgerHandler handles transaction history and send endpoints.
type LedgerHandler struct {
	ledgerSvc ports.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerSvc ports.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerSvc: ledgerSvc}
}

// Send handles POST /api/v1/transactions/send.
func (h *LedgerHandler) Send(c *gin.Context) {
	accountID, ok := contextAccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	currency := req.Currency
	if currency == "" {
		currency = "SOL"
	}

	result, err := h.ledgerSvc.SendToEmail(c.Request.Context(), accountID, req.ToEmail, currency, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSendResponse(result))
}

// ListSent handles GET /api/v1/transactions.
func (h *LedgerHandler) ListSent(c *gin.Context) {
	h.listTransactions(c, h.ledgerSvc.GetUserTransactions)
}

// ListReceived handles GET /api/v1/transactions/received.
func (h *LedgerHandler) ListReceived(c *gin.Context) {
	h.listTransactions(c, h.ledgerSvc.GetReceivedTransactions)
}

// Stats handles GET /api/v1/transactions/stats.
func (h *LedgerHandler) Stats(c *gin.Context) {
	accountID, ok := contextAccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	stats, err := h.ledgerSvc.GetUserStats(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.StatsResponse{
		TotalSent:        stats.TotalSent,
		TotalReceived:    stats.TotalReceived,
		TransactionCount: stats.TransactionCount,
		TotalBalance:     stats.TotalBalance,
		Balances:         make([]dto.BalanceEntry, 0, len(stats.Balances)),
	}
	for _, b := range stats.Balances {
		resp.Balances = append(resp.Balances, dto.BalanceEntry{
			Currency:    b.Currency,
			Balance:     b.Balance,
			LastUpdated: b.LastUpdated.Format(time.RFC3339),
		})
	}

	response.OK(c, resp)
}

type listFn func(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error)

func (h *LedgerHandler) listTransactions(c *gin.Context, list listFn) {
	accountID, ok := contextAccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, apperror.Validation("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	txns, err := list(c.Request.Context(), accountID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, toTransactionResponse(&txns[i]))
	}
	response.OK(c, items)
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:              t.ID.String(),
		FromAccountID:   t.FromAccountID.String(),
		ToEmail:         t.ToEmail,
		ToWalletAddress: t.ToWalletAddress,
		Currency:        t.Currency,
		Amount:          t.Amount,
		Status:          string(t.Status),
		Type:            string(t.Type),
		Signature:       t.Signature,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
	}
	if t.ToAccountID != nil {
		id := t.ToAccountID.String()
		resp.ToAccountID = &id
	}
	if t.CompletedAt != nil {
		completed := t.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &completed
	}
	return resp
}
