package daemon

import (
	"encoding/json"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/anti_cheat/internal/domain"
)

// FanoutSink delivers each event to every sink, in order.
type FanoutSink struct {
	sinks []domain.EventSink
}

// NewFanoutSink creates a sink that forwards to all non-nil sinks.
func NewFanoutSink(sinks ...domain.EventSink) *FanoutSink {
	f := &FanoutSink{}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

func (f *FanoutSink) OnAppSwitch(event domain.SwitchEvent) {
	for _, s := range f.sinks {
		s.OnAppSwitch(event)
	}
}

// WriterSink writes each event as a single JSON line.
type WriterSink struct {
	mu     sync.Mutex
	enc    *json.Encoder
	logger *zap.Logger
}

// NewWriterSink creates a JSON-lines sink writing to w.
func NewWriterSink(w io.Writer, logger *zap.Logger) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w), logger: logger}
}

func (s *WriterSink) OnAppSwitch(event domain.SwitchEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(event); err != nil {
		s.logger.Warn("failed to write switch event", zap.Error(err))
	}
}

var (
	_ domain.EventSink = (*FanoutSink)(nil)
	_ domain.EventSink = (*WriterSink)(nil)
)
