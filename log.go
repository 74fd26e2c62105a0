// Package-level default logger, used whenever an Exporter is built
// without an explicit Logger. Logging here is diagnostic only: nothing
// in Export branches on whether a log line was emitted.
package mdxlog

import "github.com/sirupsen/logrus"

var defaultLogger = newDefaultLogger()

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}
