package light

import (
	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// adalight speaks the Adalight serial protocol to a strip controller:
// a 6-byte header ("Ada", LED count high/low, checksum) followed by one
// RGB triple per LED
type adalight struct {
	port serial.Port
	buf  []byte
}

// AdalightConfig serial link parameters
type AdalightConfig struct {
	Device   string
	BaudRate int
	Leds     int
}

// OpenAdalight opens the serial port and returns a Renderer for it
func OpenAdalight(config AdalightConfig) (Renderer, error) {
	baud := config.BaudRate
	if baud == 0 {
		baud = 115200
	}

	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(config.Device, mode)
	if err != nil {
		return nil, errors.Wrap(err, "adalight: open "+config.Device)
	}

	return &adalight{
		port: port,
		buf:  make([]byte, 6+config.Leds*3),
	}, nil
}

func (a *adalight) Render(frame []RGB) error {
	count := len(frame) - 1 // protocol carries count minus one

	a.buf[0] = 'A'
	a.buf[1] = 'd'
	a.buf[2] = 'a'
	a.buf[3] = byte(count >> 8)
	a.buf[4] = byte(count)
	a.buf[5] = a.buf[3] ^ a.buf[4] ^ 0x55

	at := 6
	for _, c := range frame {
		a.buf[at] = c.R
		a.buf[at+1] = c.G
		a.buf[at+2] = c.B
		at += 3
	}

	if _, err := a.port.Write(a.buf[:at]); err != nil {
		return errors.Wrap(err, "adalight: write frame")
	}

	return nil
}

func (a *adalight) Close() error {
	return a.port.Close()
}
