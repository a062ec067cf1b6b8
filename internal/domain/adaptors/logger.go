package adaptors

import "slices"

type LogLevel string

const (
	Trace LogLevel = "trace"
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

var logLevels = []LogLevel{Trace, Debug, Info, Warn, Error}

func (l LogLevel) Valid() bool {
	return slices.Contains(logLevels, l)
}
