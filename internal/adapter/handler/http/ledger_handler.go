package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/service"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/infrastructure/bank"
)

// LedgerHandler records simulated bank settlements. Mounted outside
// production only.
type LedgerHandler struct {
	ledger *bank.LedgerOracle
	logger *zap.Logger
}

func NewLedgerHandler(ledger *bank.LedgerOracle, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{ledger: ledger, logger: logger}
}

// RecordTransaction handles POST /internal/bank-ledger
func (h *LedgerHandler) RecordTransaction(c echo.Context) error {
	var body BankLedgerBody
	if err := bindAndValidate(c, &body); err != nil {
		return err
	}
	amount, err := parseAmount("amount", body.Amount)
	if err != nil {
		return err
	}

	txnID := service.NormalizeTransactionID(body.TransactionID)
	h.ledger.Record(txnID, amount, entity.BankStatus(body.Status))

	h.logger.Info("Simulated bank transaction recorded",
		zap.String("txn_id", txnID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("status", body.Status))

	return c.JSON(http.StatusCreated, echo.Map{
		"transaction_id": txnID,
		"amount":         amount.StringFixed(2),
		"status":         body.Status,
	})
}
