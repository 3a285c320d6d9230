package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes to w at the given level with
// "HH:MM:SS.ms" timestamps (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one stage of a command and logs its duration at debug
// level. It is not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, rounded to the millisecond, and
// restarts the clock for the next stage.
func (p *progress) done(msg string, keyvals ...any) time.Duration {
	d := time.Since(p.start).Round(time.Millisecond)
	p.logger.Debug(msg, append(keyvals, "duration", d)...)
	p.start = time.Now()
	return d
}
