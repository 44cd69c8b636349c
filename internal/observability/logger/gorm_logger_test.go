package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestOperationFromSQL(t *testing.T) {
	cases := map[string]string{
		"SELECT * FROM presales":                          "SELECT",
		"  insert into presales (id) values (1)":          "INSERT",
		"WITH x AS (SELECT 1) UPDATE presales SET id = 1": "SELECT",
		"":                                                "UNKNOWN",
		"PRAGMA foreign_keys = ON":                        "UNKNOWN",
	}
	for sql, want := range cases {
		assert.Equal(t, want, operationFromSQL(sql), sql)
	}
}

func TestDefaultGormLoggerConfigDebugRaisesLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Warn, DefaultGormLoggerConfig(false).Level)
	assert.Equal(t, gormlogger.Info, DefaultGormLoggerConfig(true).Level)
}

func TestLogModeReturnsCopy(t *testing.T) {
	base := NewGormLogger(DefaultGormLoggerConfig(false))
	silent := base.LogMode(gormlogger.Silent).(*GormLogger)

	assert.Equal(t, gormlogger.Silent, silent.level)
	assert.Equal(t, gormlogger.Warn, base.level)
}
