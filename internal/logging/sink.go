package logging

import (
	"sync"
	"sync/atomic"
)

// Sink receives every emitted log record. Implementations are expected to
// persist records somewhere durable (the application database in production).
//
// A Sink must tolerate being called from any goroutine. Errors returned by
// Emit are discarded: a broken sink must never take the application down or
// generate further log traffic.
type Sink interface {
	Emit(level LogLevel, message string) error
}

var (
	sinkMu sync.RWMutex
	sink   Sink

	// emitting guards against reentrance: if the sink's own write path logs
	// (database drivers do), that nested record is dropped instead of
	// recursing back into the sink.
	emitting atomic.Bool
)

// SetSink registers the sink that receives all emitted records. Passing nil
// removes the current sink.
func SetSink(s Sink) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	sink = s
}

func emitToSink(level LogLevel, message string) {
	sinkMu.RLock()
	s := sink
	sinkMu.RUnlock()
	if s == nil {
		return
	}

	if !emitting.CompareAndSwap(false, true) {
		return
	}
	defer emitting.Store(false)

	// Sink failures are swallowed: logging them would loop, and the console
	// record above already made it out.
	_ = s.Emit(level, message)
}
