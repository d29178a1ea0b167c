package nrpucch

/*------------------------------------------------------------------
 *
 * Purpose:	Logging for the command line tools.
 *
 * Description:	The detector itself never logs.  The simulator and the
 *		test vector generator report progress through a
 *		structured logger writing to stderr by default.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, prefix string, level string) (*log.Logger, error) {
	var lvl, err = log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
		Level:           lvl,
	}), nil
}

// For tests and library callers that don't care.
func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
