package dialect

import (
	"strings"
)

type MysqlDialect struct{}

func (d *MysqlDialect) Name() string {
	return "mysql"
}

func (d *MysqlDialect) GetEnumsQuery(schema string) string {
	// MySQL enums are anonymous column types; every enum column reports DATA_TYPE 'enum'.
	return `SELECT DATA_TYPE, COLUMN_TYPE FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND DATA_TYPE = 'enum' ORDER BY TABLE_NAME, ORDINAL_POSITION`
}

func (d *MysqlDialect) GetVectorColumnsQuery(schema string) string {
	return `SELECT COUNT(*) FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = ? AND DATA_TYPE = 'vector'`
}

// SplitEnumLabels parses a COLUMN_TYPE such as enum('small','large').
func (d *MysqlDialect) SplitEnumLabels(spec string) []string {
	open := strings.IndexByte(spec, '(')
	closing := strings.LastIndexByte(spec, ')')
	if open < 0 || closing < open {
		return nil
	}
	return SplitQuotedList(spec[open+1 : closing])
}

func (d *MysqlDialect) NormalizeType(sqlType string) string {
	return DefaultNormalizeType(sqlType)
}

func (d *MysqlDialect) GetSchemaName(input string) string {
	return DefaultGetSchemaName(input)
}
