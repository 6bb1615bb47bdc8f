package bank

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/config"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
)

// NewOracle builds the configured oracle wrapped in a TimeoutOracle. The
// ledger is returned as well when configured so the internal endpoint can
// record simulated settlements; it is nil otherwise.
func NewOracle(cfg *config.Config, logger *zap.Logger) (domainRepo.BankVerificationOracle, *LedgerOracle, error) {
	var (
		backend domainRepo.BankVerificationOracle
		ledger  *LedgerOracle
	)

	switch cfg.Payment.Oracle {
	case config.OracleNotFound:
		backend = NewNotFoundOracle()
	case config.OracleLedger:
		if cfg.Service.IsProduction() {
			return nil, nil, fmt.Errorf("ledger oracle is not allowed in production")
		}
		ledger = NewLedgerOracle()
		backend = ledger
	default:
		return nil, nil, fmt.Errorf("unsupported oracle type: %s", cfg.Payment.Oracle)
	}

	logger.Info("Bank oracle configured",
		zap.String("oracle", cfg.Payment.Oracle),
		zap.Duration("timeout", cfg.Payment.BankTimeout))

	return NewTimeoutOracle(backend, cfg.Payment.BankTimeout, logger), ledger, nil
}
