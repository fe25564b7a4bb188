package migration

import (
	"fmt"
	"strings"
)

// MySQLGrammar implements Grammar for MySQL.
type MySQLGrammar struct{}

func NewMySQLGrammar() *MySQLGrammar {
	return &MySQLGrammar{}
}

// CompileCreateTable generates CREATE TABLE SQL.
func (g *MySQLGrammar) CompileCreateTable(table string, columns []*Column, indexes []Index, ifNotExists bool) string {
	defs := make([]string, 0, len(columns)+len(indexes))
	for _, column := range columns {
		defs = append(defs, g.compileColumn(column))
	}
	for _, index := range indexes {
		defs = append(defs, g.compileIndex(index))
	}

	create := "CREATE TABLE"
	if ifNotExists {
		create += " IF NOT EXISTS"
	}

	return fmt.Sprintf("%s `%s` (\n  %s\n) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci",
		create, table, strings.Join(defs, ",\n  "))
}

func (g *MySQLGrammar) CompileDropTable(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)
}

func (g *MySQLGrammar) compileColumn(column *Column) string {
	parts := []string{fmt.Sprintf("`%s`", column.Name)}

	if column.Length > 0 && column.Type == ColumnTypeString {
		parts = append(parts, fmt.Sprintf("%s(%d)", column.Type, column.Length))
	} else {
		parts = append(parts, string(column.Type))
	}

	if column.IsUnsigned {
		parts = append(parts, "UNSIGNED")
	}

	if column.IsNullable {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}

	if column.AutoIncrement {
		parts = append(parts, "AUTO_INCREMENT")
	}

	if column.DefaultValue != nil {
		if str, ok := column.DefaultValue.(string); ok {
			parts = append(parts, fmt.Sprintf("DEFAULT '%s'", strings.ReplaceAll(str, "'", "''")))
		} else {
			parts = append(parts, fmt.Sprintf("DEFAULT %v", column.DefaultValue))
		}
	}

	if column.Primary {
		parts = append(parts, "PRIMARY KEY")
	}

	return strings.Join(parts, " ")
}

func (g *MySQLGrammar) compileIndex(index Index) string {
	columns := make([]string, len(index.Columns))
	for i, col := range index.Columns {
		columns[i] = fmt.Sprintf("`%s`", col)
	}

	if index.Type == IndexTypeUnique {
		return fmt.Sprintf("UNIQUE KEY `%s` (%s)", index.Name, strings.Join(columns, ", "))
	}
	return fmt.Sprintf("INDEX `%s` (%s)", index.Name, strings.Join(columns, ", "))
}
