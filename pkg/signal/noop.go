package signal

// NoopSink is used when the serial device is absent or failed to open.
// The attention monitor still runs its full timer logic against it;
// no byte ever leaves the process.
type NoopSink struct{}

// NewNoopSink creates a sink that does nothing.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

// Trigger implements Sink.
func (*NoopSink) Trigger() error { return nil }

// Close implements Sink.
func (*NoopSink) Close() error { return nil }
