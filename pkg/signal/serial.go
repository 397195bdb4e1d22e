package signal

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/gazekeeper/gazekeeper/internal/log"
)

const (
	// settleDelay gives the microcontroller time to finish its reset
	// after the port opens; writes before that are lost.
	settleDelay = 2 * time.Second

	// ackDelay is how long to wait after a trigger before draining
	// the device's text response.
	ackDelay = 100 * time.Millisecond

	// readTimeout bounds each drain read so Trigger never blocks on a
	// silent device.
	readTimeout = 50 * time.Millisecond
)

// porter is the minimal serial port surface the sink needs.
// This abstraction enables unit testing without real serial hardware.
type porter interface {
	io.ReadWriteCloser
	SetReadTimeout(time.Duration) error
}

// SerialSink writes the trigger byte to a serial device and logs
// whatever the device replies.
type SerialSink struct {
	port porter
	name string

	// delays are fields so tests can zero them
	ackDelay time.Duration

	mu sync.Mutex
}

// OpenSerial opens the named port at the given baud rate and waits for
// the device to settle. The caller owns Close.
func OpenSerial(name string, baud int) (*SerialSink, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}

	time.Sleep(settleDelay)
	log.Info("trigger device connected", "port", name, "baud", baud)

	return &SerialSink{port: port, name: name, ackDelay: ackDelay}, nil
}

// Connect opens the named port, downgrading to a no-op sink when the
// device is unavailable. An empty name means "run without the device".
func Connect(name string, baud int) Sink {
	if name == "" {
		log.Info("no serial port configured, triggers disabled")
		return NewNoopSink()
	}
	sink, err := OpenSerial(name, baud)
	if err != nil {
		log.Warn("could not connect trigger device, continuing without it",
			"port", name, "error", err)
		return NewNoopSink()
	}
	return sink
}

// Trigger writes the trigger byte, then drains and logs any pending
// response lines. Device failures are logged, not propagated as fatal;
// the caller's episode bookkeeping proceeds either way.
func (s *SerialSink) Trigger() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.port.Write([]byte{TriggerByte}); err != nil {
		log.Error("trigger write failed", "port", s.name, "error", err)
		return fmt.Errorf("write trigger: %w", err)
	}
	log.Info("trigger sent", "port", s.name)

	time.Sleep(s.ackDelay)
	s.drainResponses()
	return nil
}

// drainResponses reads whatever the device has queued and logs it
// line by line. Reads stop at the first timeout.
func (s *SerialSink) drainResponses() {
	buf := make([]byte, 256)
	var pending []byte
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
		}
		if err != nil || n == 0 {
			break
		}
	}
	for {
		i := bytes.IndexByte(pending, '\n')
		if i < 0 {
			break
		}
		if line := strings.TrimSpace(string(pending[:i])); line != "" {
			log.Info("device says", "line", line)
		}
		pending = pending[i+1:]
	}
	if rest := strings.TrimSpace(string(pending)); rest != "" {
		log.Info("device says", "line", rest)
	}
}

// Close closes the serial port.
func (s *SerialSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.Info("closing trigger device", "port", s.name)
	return s.port.Close()
}
