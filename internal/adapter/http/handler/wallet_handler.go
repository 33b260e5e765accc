package handler

import (
	"solafi-wallet-core/internal/adapter/http/dto"
	"solafi-wallet-core/internal/core/ports"
	"solafi-wallet-core/pkg/apperror"
	"solafi-wallet-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// WalletHandler handles wallet balance and faucet endpoints.
type WalletHandler struct {
	authSvc   ports.AuthService
	walletSvc ports.WalletService
	ledgerSvc ports.LedgerService
	log       zerolog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(authSvc ports.AuthService, walletSvc ports.WalletService, ledgerSvc ports.LedgerService, log zerolog.Logger) *WalletHandler {
	return &WalletHandler{
		authSvc:   authSvc,
		walletSvc: walletSvc,
		ledgerSvc: ledgerSvc,
		log:       log,
	}
}

// GetBalance handles GET /api/v1/wallet/balance. It queries the chain
// and refreshes the cached balance as a side effect.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	accountID, ok := contextAccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	profile, err := h.authSvc.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !profile.HasWallet() {
		response.Error(c, apperror.ErrNotFound("wallet"))
		return
	}

	address := *profile.WalletAddress
	balance, err := h.walletSvc.GetBalance(c.Request.Context(), address)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.ledgerSvc.UpdateWalletBalance(c.Request.Context(), accountID, "SOL", balance); err != nil {
		h.log.Warn().Err(err).Str("account_id", accountID.String()).Msg("balance cache refresh failed")
	}

	response.OK(c, dto.BalanceResponse{
		WalletAddress: address,
		Balance:       balance,
		Currency:      "SOL",
	})
}

// RequestAirdrop handles POST /api/v1/wallet/airdrop.
func (h *WalletHandler) RequestAirdrop(c *gin.Context) {
	accountID, ok := contextAccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.AirdropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	profile, err := h.authSvc.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !profile.HasWallet() {
		response.Error(c, apperror.ErrNotFound("wallet"))
		return
	}

	result, err := h.ledgerSvc.RequestAirdropAndRecord(c.Request.Context(), accountID, *profile.WalletAddress, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSendResponse(result))
}

func toSendResponse(r *ports.SendResult) dto.SendResponse {
	resp := dto.SendResponse{
		Status:  string(r.Status),
		Message: r.Message,
	}
	if r.TransactionID != nil {
		id := r.TransactionID.String()
		resp.TransactionID = &id
	}
	return resp
}
