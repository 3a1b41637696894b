package chado

import (
	"github.com/sirupsen/logrus"
)

/*
sqlLogger 将 gorm 的 SQL 日志转发到 logrus，统一以 Debug 级别输出
*/
type sqlLogger struct {
	entry *logrus.Entry
}

func newSQLLogger(logger *logrus.Logger) *sqlLogger {
	return &sqlLogger{entry: logger.WithField("component", "gorm")}
}

func (l *sqlLogger) Printf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}
