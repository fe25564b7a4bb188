package payment

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

func newLedger(t *testing.T) (*SQLLedger, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	ledger := NewSQLLedger(db, logger.Nop())
	ledger.now = func() time.Time { return time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC) }
	return ledger, mock
}

func TestSQLLedger_MakePayment(t *testing.T) {
	ledger, mock := newLedger(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments (purchase_account_id, amount, created_at)")).
		WithArgs(int64(1234), 65, time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := ledger.MakePayment(context.Background(), 1234, 65); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSQLLedger_MakePaymentRejectsInput(t *testing.T) {
	tests := []struct {
		name      string
		accountID int64
		amount    int
		want      error
	}{
		{"negative amount", 1, -5, ErrInvalidAmount},
		{"zero account", 0, 25, ErrInvalidAccount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, mock := newLedger(t)

			if err := ledger.MakePayment(context.Background(), tt.accountID, tt.amount); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestSQLLedger_MakePaymentDriverError(t *testing.T) {
	ledger, mock := newLedger(t)
	driverErr := errors.New("connection reset")

	mock.ExpectExec("INSERT INTO payments").WillReturnError(driverErr)

	err := ledger.MakePayment(context.Background(), 1234, 25)
	if !errors.Is(err, driverErr) {
		t.Errorf("Expected wrapped driver error, got %v", err)
	}
}

func TestSQLLedger_ZeroAmountChargesNothing(t *testing.T) {
	ledger, mock := newLedger(t)

	if err := ledger.MakePayment(context.Background(), 1234, 0); err != nil {
		t.Fatalf("Expected a free purchase to be accepted, got %v", err)
	}
	// No statement may reach the database.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSQLLedger_Migrate(t *testing.T) {
	ledger, mock := newLedger(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS `payments`")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := ledger.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
