package logging

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// TraceLevel sits one step below zap's Debug. Progress ticks and
// per-candidate scoring terms log here; production configs usually
// filter it out.
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses lvl, accepting zap's level names plus "trace".
func LevelFromString(lvl string) (zapcore.Level, error) {
	if lvl == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(lvl)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", lvl)
	}
	return l, nil
}
