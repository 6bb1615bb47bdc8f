package bank

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/config"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

type oracleFunc func(ctx context.Context, txnID string) (*entity.BankLookup, error)

func (f oracleFunc) Lookup(ctx context.Context, txnID string) (*entity.BankLookup, error) {
	return f(ctx, txnID)
}

func TestLedgerOracle(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedgerOracle()
	ledger.Record("A1B2C3D4E5F6", decimal.RequireFromString("700"), entity.BankStatusSuccess)

	got, err := ledger.Lookup(ctx, " a1b2c3d4e5f6 ")
	require.NoError(t, err)
	assert.True(t, got.Settled())
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("700")))

	missing, err := ledger.Lookup(ctx, "Z9Y8X7W6V5U4")
	require.NoError(t, err)
	assert.False(t, missing.Found)

	ledger.Forget("A1B2C3D4E5F6")
	got, err = ledger.Lookup(ctx, "A1B2C3D4E5F6")
	require.NoError(t, err)
	assert.False(t, got.Found)
}

func TestNotFoundOracle(t *testing.T) {
	got, err := NewNotFoundOracle().Lookup(context.Background(), "A1B2C3D4E5F6")
	require.NoError(t, err)
	assert.False(t, got.Settled())
}

func TestTimeoutOracle(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		next    oracleFunc
		wantErr bool
	}{
		{
			name: "passes through settled answer",
			next: func(ctx context.Context, txnID string) (*entity.BankLookup, error) {
				return &entity.BankLookup{Found: true, Amount: decimal.NewFromInt(700), Status: entity.BankStatusSuccess}, nil
			},
		},
		{
			name: "passes through not found",
			next: func(ctx context.Context, txnID string) (*entity.BankLookup, error) {
				return &entity.BankLookup{Found: false}, nil
			},
		},
		{
			name: "times out",
			next: func(ctx context.Context, txnID string) (*entity.BankLookup, error) {
				<-ctx.Done()
				time.Sleep(5 * time.Millisecond)
				return &entity.BankLookup{Found: true, Amount: decimal.NewFromInt(700), Status: entity.BankStatusSuccess}, nil
			},
			wantErr: true,
		},
		{
			name: "backend error",
			next: func(ctx context.Context, txnID string) (*entity.BankLookup, error) {
				return nil, errors.New("connection refused")
			},
			wantErr: true,
		},
		{
			name: "nil answer",
			next: func(ctx context.Context, txnID string) (*entity.BankLookup, error) {
				return nil, nil
			},
			wantErr: true,
		},
		{
			name: "unknown status",
			next: func(ctx context.Context, txnID string) (*entity.BankLookup, error) {
				return &entity.BankLookup{Found: true, Amount: decimal.NewFromInt(700), Status: "SETTLED"}, nil
			},
			wantErr: true,
		},
		{
			name: "negative amount",
			next: func(ctx context.Context, txnID string) (*entity.BankLookup, error) {
				return &entity.BankLookup{Found: true, Amount: decimal.NewFromInt(-1), Status: entity.BankStatusSuccess}, nil
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := NewTimeoutOracle(tt.next, 20*time.Millisecond, logger)
			got, err := oracle.Lookup(context.Background(), "A1B2C3D4E5F6")
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotNil(t, got)
				return
			}
			require.Error(t, err)
			var ext *domainErrors.ExternalDependencyError
			assert.True(t, errors.As(err, &ext))
			assert.Equal(t, apperrors.ErrExternalDependency, apperrors.CodeOf(err))
		})
	}
}

func TestNewOracle(t *testing.T) {
	logger := zap.NewNop()

	cfg := &config.Config{}
	cfg.Payment.Oracle = config.OracleLedger
	cfg.Payment.BankTimeout = time.Second
	oracle, ledger, err := NewOracle(cfg, logger)
	require.NoError(t, err)
	require.NotNil(t, ledger)
	assert.IsType(t, &TimeoutOracle{}, oracle)

	cfg.Service.Environment = "production"
	_, _, err = NewOracle(cfg, logger)
	assert.Error(t, err)

	cfg.Payment.Oracle = config.OracleNotFound
	_, ledger, err = NewOracle(cfg, logger)
	require.NoError(t, err)
	assert.Nil(t, ledger)
}
