package bank

import (
	"time"

	"github.com/aryasetiadi/bukukas/internal/ledger"
)

// Transaction is one line of a bank statement. Amount is signed the way
// banks export it: negative for money leaving the account.
type Transaction struct {
	ID          string                 `json:"id"`
	Date        time.Time              `json:"date"`
	Description string                 `json:"description"`
	Amount      float64                `json:"amount"`
	Type        ledger.TransactionType `json:"type"`
	Matched     bool                   `json:"matched"`
	MatchedID   string                 `json:"matched_transaction_id,omitempty"`
}
