package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// New returns a logfmt logger on stdout filtered at the named level.
func New(lvl string) log.Logger {
	return NewWithWriter(os.Stdout, lvl)
}

func NewWithWriter(w io.Writer, lvl string) log.Logger {
	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(log.NewSyncWriter(w))
		logger = log.With(logger, "ts", log.DefaultTimestampUTC)
		logger = log.With(logger, "caller", log.DefaultCaller)
		logger = level.NewFilter(logger, allow(lvl))
	}
	return logger
}

func allow(lvl string) level.Option {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// GormWriter adapts a go-kit logger to gorm's logger.Writer. gorm only
// writes through it at warn or above, so every line is logged as a warning.
type GormWriter struct {
	Logger log.Logger
}

func (w GormWriter) Printf(format string, args ...interface{}) {
	level.Warn(w.Logger).Log("component", "gorm", "msg", fmt.Sprintf(format, args...))
}
