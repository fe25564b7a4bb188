// -----------------------------------------------------------------------------
// Payment Ledger
// -----------------------------------------------------------------------------
// SQLLedger is the MySQL backed PaymentService. Every successful payment is
// one row in the payments table; the card side of the transaction lives with
// the external payment provider and is out of scope here.
// -----------------------------------------------------------------------------

package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biyonik/cinema-ticket-service/pkg/database/migration"
	"github.com/biyonik/cinema-ticket-service/pkg/logger"
)

const paymentsTable = "payments"

var (
	ErrInvalidAmount  = errors.New("payment amount must not be negative")
	ErrInvalidAccount = errors.New("account ID must be positive")
)

type SQLLedger struct {
	db     *sql.DB
	logger *logger.Logger
	now    func() time.Time
}

func NewSQLLedger(db *sql.DB, log *logger.Logger) *SQLLedger {
	return &SQLLedger{
		db:     db,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates the payments table when it does not exist yet.
func (l *SQLLedger) Migrate(ctx context.Context) error {
	m := migration.NewMigrator(l.db, migration.NewMySQLGrammar(), l.logger)
	return m.CreateTableIfNotExists(ctx, paymentsTable, func(t *migration.Blueprint) {
		t.ID()
		t.BigInteger("purchase_account_id")
		t.Integer("amount").Unsigned()
		t.Timestamp("created_at")
		t.Index("purchase_account_id")
	})
}

// MakePayment records a payment of amount whole pounds for accountID. A
// zero amount, e.g. a purchase of free tickets only, charges nothing and
// records nothing.
func (l *SQLLedger) MakePayment(ctx context.Context, accountID int64, amount int) error {
	if accountID <= 0 {
		return ErrInvalidAccount
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	if amount == 0 {
		l.logger.Debug("Nothing to charge", "account_id", accountID)
		return nil
	}

	query := `
		INSERT INTO payments (purchase_account_id, amount, created_at)
		VALUES (?, ?, ?)
	`

	result, err := l.db.ExecContext(ctx, query, accountID, amount, l.now())
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get payment id: %w", err)
	}

	l.logger.Debug("Payment recorded", "payment_id", id, "account_id", accountID, "amount", amount)
	return nil
}
