package bank

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
)

const dependencyName = "bank"

var errMalformedAnswer = errors.New("malformed bank answer")

// TimeoutOracle bounds every lookup of the wrapped oracle. Timeouts, errors
// and malformed answers come back as *ExternalDependencyError.
type TimeoutOracle struct {
	next    domainRepo.BankVerificationOracle
	timeout time.Duration
	logger  *zap.Logger
}

func NewTimeoutOracle(next domainRepo.BankVerificationOracle, timeout time.Duration, logger *zap.Logger) *TimeoutOracle {
	return &TimeoutOracle{next: next, timeout: timeout, logger: logger}
}

func (o *TimeoutOracle) Lookup(ctx context.Context, txnID string) (*entity.BankLookup, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	type answer struct {
		lookup *entity.BankLookup
		err    error
	}
	done := make(chan answer, 1)
	go func() {
		lookup, err := o.next.Lookup(ctx, txnID)
		done <- answer{lookup, err}
	}()

	select {
	case <-ctx.Done():
		o.logger.Warn("Bank lookup timed out",
			zap.String("txn_id", txnID),
			zap.Duration("timeout", o.timeout))
		return nil, domainErrors.NewExternalDependencyError(dependencyName, ctx.Err())
	case a := <-done:
		if a.err != nil {
			o.logger.Warn("Bank lookup failed", zap.String("txn_id", txnID), zap.Error(a.err))
			return nil, domainErrors.NewExternalDependencyError(dependencyName, a.err)
		}
		if err := checkAnswer(a.lookup); err != nil {
			o.logger.Warn("Bank returned malformed answer", zap.String("txn_id", txnID), zap.Error(err))
			return nil, domainErrors.NewExternalDependencyError(dependencyName, err)
		}
		return a.lookup, nil
	}
}

func checkAnswer(l *entity.BankLookup) error {
	if l == nil {
		return fmt.Errorf("%w: empty answer", errMalformedAnswer)
	}
	if !l.Found {
		return nil
	}
	if !l.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", errMalformedAnswer, l.Status)
	}
	if !l.Amount.IsPositive() {
		return fmt.Errorf("%w: amount %s", errMalformedAnswer, l.Amount.String())
	}
	return nil
}
