package serialmux

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

// TestableSerialPort implements SerialPorter with configurable behaviour
// for testing. It provides control over reads, writes and errors without
// real sensor hardware.
type TestableSerialPort struct {
	mu sync.Mutex

	// ReadBuffer holds data to be returned by Read calls
	ReadBuffer *bytes.Buffer

	// WriteBuffer captures data written to the port
	WriteBuffer *bytes.Buffer

	// ReadError is returned by the next Read call if set
	ReadError error

	// WriteError is returned by the next Write call if set
	WriteError error

	// Closed indicates whether Close was called
	Closed bool

	// BlockReads causes Read to block until data is added or Close is called
	BlockReads bool

	readCond *sync.Cond
}

// NewTestableSerialPort creates a new TestableSerialPort for testing.
func NewTestableSerialPort() *TestableSerialPort {
	tsp := &TestableSerialPort{
		ReadBuffer:  bytes.NewBuffer(nil),
		WriteBuffer: bytes.NewBuffer(nil),
	}
	tsp.readCond = sync.NewCond(&tsp.mu)
	return tsp
}

// Read reads from the read buffer, optionally blocking until data arrives.
func (t *TestableSerialPort) Read(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ReadError != nil {
		err = t.ReadError
		t.ReadError = nil
		return 0, err
	}

	for t.BlockReads && t.ReadBuffer.Len() == 0 && !t.Closed {
		t.readCond.Wait()
	}

	if t.Closed {
		return 0, errors.New("serial port closed")
	}

	return t.ReadBuffer.Read(p)
}

// Write appends to the write buffer.
func (t *TestableSerialPort) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.WriteError != nil {
		err = t.WriteError
		t.WriteError = nil
		return 0, err
	}
	if t.Closed {
		return 0, errors.New("serial port closed")
	}

	return t.WriteBuffer.Write(p)
}

// Close marks the port closed and wakes any blocked readers.
func (t *TestableSerialPort) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Closed = true
	t.readCond.Broadcast()
	return nil
}

// AddReadData appends data for subsequent Read calls and wakes blocked
// readers.
func (t *TestableSerialPort) AddReadData(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ReadBuffer.Write(data)
	t.readCond.Broadcast()
}

// Written returns a copy of everything written to the port so far.
func (t *TestableSerialPort) Written() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]byte, t.WriteBuffer.Len())
	copy(out, t.WriteBuffer.Bytes())
	return out
}

// MockSerialMux creates a SerialMux backed by a TestableSerialPort that
// replays the given lines at the given interval, simulating a streaming
// rangefinder.
func MockSerialMux(lines []string, interval time.Duration) (*SerialMux[*TestableSerialPort], *TestableSerialPort) {
	port := NewTestableSerialPort()
	port.BlockReads = true

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		i := 0
		for range ticker.C {
			port.mu.Lock()
			closed := port.Closed
			port.mu.Unlock()
			if closed || len(lines) == 0 {
				return
			}
			port.AddReadData([]byte(lines[i%len(lines)] + "\n"))
			i++
		}
	}()

	return NewSerialMux(port), port
}
