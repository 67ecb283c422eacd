package inspect

import "strings"

// Level is the severity of one parsed log entry
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// Levels lists every level from least to most severe
var Levels = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelFatal}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a parser level string to a Level. Unknown strings,
// including the empty string, are treated as INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE", "DEBUG":
		return LevelDebug
	case "INFO", "NOTICE":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERR", "ERROR":
		return LevelError
	case "FATAL", "CRITICAL", "CRIT", "PANIC":
		return LevelFatal
	default:
		return LevelInfo
	}
}
