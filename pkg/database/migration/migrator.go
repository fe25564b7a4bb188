// -----------------------------------------------------------------------------
// Database Migration System
// -----------------------------------------------------------------------------
// A small schema builder for the tables this service owns. A Blueprint
// describes a table; a Grammar turns it into dialect specific SQL.
//
// Usage:
//
//	err := migrator.CreateTableIfNotExists(ctx, "payments", func(t *Blueprint) {
//	    t.ID()
//	    t.BigInteger("purchase_account_id")
//	    t.Integer("amount").Unsigned()
//	    t.Timestamp("created_at")
//	    t.Index("purchase_account_id")
//	})
// -----------------------------------------------------------------------------

package migration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Logger is the logging contract of the migrator. *logger.Logger satisfies it.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
}

// Grammar defines SQL generation for a database dialect.
type Grammar interface {
	CompileCreateTable(table string, columns []*Column, indexes []Index, ifNotExists bool) string
	CompileDropTable(table string) string
}

// Migrator manages database schema changes.
type Migrator struct {
	db      *sql.DB
	grammar Grammar
	logger  Logger
}

func NewMigrator(db *sql.DB, grammar Grammar, logger Logger) *Migrator {
	return &Migrator{
		db:      db,
		grammar: grammar,
		logger:  logger,
	}
}

// CreateTableIfNotExists creates the table unless it already exists.
func (m *Migrator) CreateTableIfNotExists(ctx context.Context, tableName string, callback func(*Blueprint)) error {
	blueprint := NewBlueprint(tableName)
	callback(blueprint)

	query := m.grammar.CompileCreateTable(blueprint.table, blueprint.columns, blueprint.indexes, true)
	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	m.logger.Info("Table ready", "table", tableName)
	return nil
}

// DropTable drops a table if it exists.
func (m *Migrator) DropTable(ctx context.Context, tableName string) error {
	if _, err := m.db.ExecContext(ctx, m.grammar.CompileDropTable(tableName)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	m.logger.Info("Table dropped", "table", tableName)
	return nil
}

// -----------------------------------------------------------------------------
// Blueprint - Table Schema Builder
// -----------------------------------------------------------------------------

// Blueprint defines the structure of a table.
type Blueprint struct {
	table   string
	columns []*Column
	indexes []Index
}

func NewBlueprint(tableName string) *Blueprint {
	return &Blueprint{table: tableName}
}

// ID adds an auto-incrementing primary key column.
func (b *Blueprint) ID() *Column {
	return b.addColumn(&Column{
		Name:          "id",
		Type:          ColumnTypeUnsignedBigInt,
		AutoIncrement: true,
		Primary:       true,
	})
}

func (b *Blueprint) String(name string, length int) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeString, Length: length})
}

func (b *Blueprint) Integer(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeInteger})
}

func (b *Blueprint) BigInteger(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeBigInt})
}

func (b *Blueprint) Timestamp(name string) *Column {
	return b.addColumn(&Column{Name: name, Type: ColumnTypeTimestamp})
}

func (b *Blueprint) addColumn(column *Column) *Column {
	b.columns = append(b.columns, column)
	return column
}

// Index adds a regular index.
func (b *Blueprint) Index(columns ...string) {
	b.indexes = append(b.indexes, Index{
		Name:    fmt.Sprintf("%s_%s_index", b.table, strings.Join(columns, "_")),
		Columns: columns,
		Type:    IndexTypeIndex,
	})
}

// Unique adds a unique index.
func (b *Blueprint) Unique(columns ...string) {
	b.indexes = append(b.indexes, Index{
		Name:    fmt.Sprintf("%s_%s_unique", b.table, strings.Join(columns, "_")),
		Columns: columns,
		Type:    IndexTypeUnique,
	})
}

// -----------------------------------------------------------------------------
// Column Definition
// -----------------------------------------------------------------------------

type ColumnType string

const (
	ColumnTypeString         ColumnType = "VARCHAR"
	ColumnTypeInteger        ColumnType = "INT"
	ColumnTypeBigInt         ColumnType = "BIGINT"
	ColumnTypeUnsignedBigInt ColumnType = "BIGINT UNSIGNED"
	ColumnTypeTimestamp      ColumnType = "TIMESTAMP"
)

// Column represents a table column. Use the chainable setters while
// building a Blueprint.
type Column struct {
	Name          string
	Type          ColumnType
	Length        int
	IsNullable    bool
	DefaultValue  interface{}
	IsUnsigned    bool
	AutoIncrement bool
	Primary       bool
}

func (c *Column) Nullable() *Column {
	c.IsNullable = true
	return c
}

func (c *Column) Default(value interface{}) *Column {
	c.DefaultValue = value
	return c
}

func (c *Column) Unsigned() *Column {
	c.IsUnsigned = true
	return c
}

// -----------------------------------------------------------------------------
// Index Definition
// -----------------------------------------------------------------------------

type IndexType string

const (
	IndexTypeIndex  IndexType = "INDEX"
	IndexTypeUnique IndexType = "UNIQUE"
)

type Index struct {
	Name    string
	Columns []string
	Type    IndexType
}
