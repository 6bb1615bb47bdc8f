// Package bank provides bank verification oracles. There is no real bank
// integration: NotFoundOracle denies every claim and LedgerOracle answers from
// an in-memory ledger of simulated settlements.
package bank

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
)

// NotFoundOracle never finds a transaction, so every claim fails closed.
type NotFoundOracle struct{}

func NewNotFoundOracle() *NotFoundOracle {
	return &NotFoundOracle{}
}

func (o *NotFoundOracle) Lookup(ctx context.Context, txnID string) (*entity.BankLookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &entity.BankLookup{Found: false}, nil
}

// LedgerOracle answers lookups from recorded transactions.
type LedgerOracle struct {
	mu      sync.RWMutex
	entries map[string]entity.BankLookup
}

func NewLedgerOracle() *LedgerOracle {
	return &LedgerOracle{entries: make(map[string]entity.BankLookup)}
}

// Record stores a simulated bank transaction, replacing any previous entry.
func (o *LedgerOracle) Record(txnID string, amount decimal.Decimal, status entity.BankStatus) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries[ledgerKey(txnID)] = entity.BankLookup{Found: true, Amount: amount, Status: status}
}

// Forget removes a recorded transaction.
func (o *LedgerOracle) Forget(txnID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.entries, ledgerKey(txnID))
}

func (o *LedgerOracle) Lookup(ctx context.Context, txnID string) (*entity.BankLookup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.RLock()
	defer o.mu.RUnlock()
	entry, ok := o.entries[ledgerKey(txnID)]
	if !ok {
		return &entity.BankLookup{Found: false}, nil
	}
	return &entry, nil
}

func ledgerKey(txnID string) string {
	return strings.ToUpper(strings.TrimSpace(txnID))
}
