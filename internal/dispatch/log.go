package dispatch

import (
	"github.com/dshills/keybot/internal/input/key"
	"github.com/dshills/keybot/internal/logging"
)

// Log writes every event to a logger instead of injecting it. It backs dry
// runs and the --echo flag.
type Log struct {
	logger *logging.Logger
}

// NewLog creates a logging dispatcher.
func NewLog(logger *logging.Logger) *Log {
	if logger == nil {
		logger = logging.Null()
	}
	return &Log{logger: logger.WithComponent("dispatch")}
}

// Dispatch logs the event at info level.
func (l *Log) Dispatch(k key.Key, t key.Toggle) error {
	l.logger.Info("%s %s", k, t)
	return nil
}
