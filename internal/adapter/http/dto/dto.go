package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ResetPasswordRequest is the request body for a password reset.
type ResetPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ReassociateRequest is the request body for re-binding a wallet address.
type ReassociateRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,sol_address"`
}

// AirdropRequest is the request body for a faucet funding request.
type AirdropRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// SendRequest is the request body for an email-addressed send.
type SendRequest struct {
	ToEmail  string  `json:"to_email" binding:"required,email"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"omitempty,uppercase,min=2,max=10"`
}

// SessionResponse describes an authenticated session.
type SessionResponse struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// RegisterResponse is the response body for successful registration.
type RegisterResponse struct {
	AccountID     string          `json:"account_id"`
	Email         string          `json:"email"`
	WalletAddress string          `json:"wallet_address"`
	Session       SessionResponse `json:"session"`
}

// ProfileResponse is the response body for the profile endpoint.
type ProfileResponse struct {
	AccountID     string  `json:"account_id"`
	Email         string  `json:"email"`
	WalletAddress *string `json:"wallet_address,omitempty"`
	CreatedAt     string  `json:"created_at"`
	LastLoginAt   string  `json:"last_login_at"`
}

// BalanceResponse is the response for a live balance query.
type BalanceResponse struct {
	WalletAddress string  `json:"wallet_address"`
	Balance       float64 `json:"balance"`
	Currency      string  `json:"currency"`
}

// SendResponse is the response body for send and airdrop requests.
type SendResponse struct {
	Status        string  `json:"status"`
	Message       string  `json:"message"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

// TransactionResponse is one ledger entry in history listings.
type TransactionResponse struct {
	ID              string  `json:"id"`
	FromAccountID   string  `json:"from_account_id"`
	ToAccountID     *string `json:"to_account_id,omitempty"`
	ToEmail         *string `json:"to_email,omitempty"`
	ToWalletAddress *string `json:"to_wallet_address,omitempty"`
	Currency        string  `json:"currency"`
	Amount          float64 `json:"amount"`
	Status          string  `json:"status"`
	Type            string  `json:"type"`
	Signature       *string `json:"signature,omitempty"`
	CreatedAt       string  `json:"created_at"`
	CompletedAt     *string `json:"completed_at,omitempty"`
}

// BalanceEntry is one cached (currency, balance) pair in stats.
type BalanceEntry struct {
	Currency    string  `json:"currency"`
	Balance     float64 `json:"balance"`
	LastUpdated string  `json:"last_updated"`
}

// StatsResponse is the response body for the stats endpoint.
type StatsResponse struct {
	TotalSent        float64        `json:"total_sent"`
	TotalReceived    float64        `json:"total_received"`
	TransactionCount int            `json:"transaction_count"`
	TotalBalance     float64        `json:"total_balance"`
	Balances         []BalanceEntry `json:"balances"`
}
