package parking

import (
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
)

var (
	logger atomic.Pointer[logiface.Logger[logiface.Event]]

	// at most one report per second, and ten per minute, for each backend
	// and operation
	nativeErrorLimiter = catrate.NewLimiter(map[time.Duration]int{
		time.Second: 1,
		time.Minute: 10,
	})
)

type nativeErrorCategory struct {
	backend string
	op      string
}

// SetLogger configures the logger used to report unexpected errors from
// native primitives, and backend selection. A nil logger (the default)
// disables logging.
func SetLogger(l *logiface.Logger[logiface.Event]) { logger.Store(l) }

// getLogger may return nil, which is safe to log to.
func getLogger() *logiface.Logger[logiface.Event] { return logger.Load() }

func logNativeError(backend, op string, err error) {
	l := getLogger()
	if l == nil {
		return
	}
	if _, ok := nativeErrorLimiter.Allow(nativeErrorCategory{backend: backend, op: op}); !ok {
		return
	}
	l.Err().
		Str(`backend`, backend).
		Str(`op`, op).
		Err(err).
		Log(`parking: unexpected native error, treating as a spurious wakeup`)
}
