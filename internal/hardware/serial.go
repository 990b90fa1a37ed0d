package hardware

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.bug.st/serial"

	"sensorlog/internal/logging"
	"sensorlog/internal/sensor"
)

// SerialSource pulls readings from a serial-attached device. Each call to
// Next reads until a complete line frame arrives or the read timeout
// elapses; a timeout is an empty tick, not an error. Decoding failures are
// acquisition errors the session logs and survives.
type SerialSource struct {
	port    serial.Port
	parsers *ParserChain
	logger  *logging.Logger
	device  string

	// pending holds bytes received ahead of the next frame boundary.
	pending bytes.Buffer
	now     func() time.Time
}

// OpenSerial opens the device at the given baud rate with the standard
// 8N1 framing and the default parser chain. Failure to open the device is
// fatal to the source.
func OpenSerial(device string, baudRate int, readTimeout time.Duration, logger *logging.Logger) (*SerialSource, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("hardware: cannot open %s: %w", device, err)
	}
	if err := port.SetReadTimeout(readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("hardware: cannot set read timeout on %s: %w", device, err)
	}

	logger.Info("hardware.opened", "Serial device opened", map[string]any{
		"device": device,
		"baud":   baudRate,
	})

	return &SerialSource{
		port:    port,
		parsers: DefaultParsers(),
		logger:  logger,
		device:  device,
		now:     time.Now,
	}, nil
}

// Next reads one frame from the device and decodes it. An empty result
// with a nil error means the device produced nothing before the timeout;
// the caller simply continues its loop.
func (s *SerialSource) Next(ctx context.Context) ([]sensor.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	line, ok, err := s.readLine()
	if err != nil {
		return nil, fmt.Errorf("hardware: read from %s failed: %w", s.device, err)
	}
	if !ok {
		// Timeout: no frame this tick.
		return nil, nil
	}

	reading, err := s.parsers.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("hardware: %w", err)
	}
	reading.Timestamp = s.now()

	return []sensor.Reading{reading}, nil
}

// readLine reads until a newline or the port's read timeout. Bytes past
// the newline stay pending for the next call.
func (s *SerialSource) readLine() (string, bool, error) {
	if line, ok := s.takePending(); ok {
		return line, true, nil
	}

	buf := make([]byte, 256)
	for {
		n, err := s.port.Read(buf)
		if err != nil {
			return "", false, err
		}
		if n == 0 {
			// go.bug.st/serial signals a read timeout with a zero-length
			// read and no error.
			return "", false, nil
		}
		s.pending.Write(buf[:n])

		if line, ok := s.takePending(); ok {
			return line, true, nil
		}
	}
}

// takePending extracts one complete line from the pending buffer.
func (s *SerialSource) takePending() (string, bool) {
	data := s.pending.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx < 0 {
		return "", false
	}
	line := string(data[:idx+1])
	s.pending.Next(idx + 1)
	return line, true
}

// Close closes the serial port.
func (s *SerialSource) Close() error {
	if err := s.port.Close(); err != nil {
		return fmt.Errorf("hardware: closing %s failed: %w", s.device, err)
	}
	s.logger.Info("hardware.closed", "Serial device closed", map[string]any{
		"device": s.device,
	})
	return nil
}
