package icv6

import (
	"bytes"
	"fmt"
	"io"
)

const (
	// DeviceIDLength is the number of ASCII characters of a device id on the wire.
	DeviceIDLength = 11

	headerLen    = 5
	minFrameLen  = 21
	keepaliveLen = 9
	readChunk    = 4096
)

var (
	magicFrame     = []byte{0xDD, 0xEE, 0xFF}
	magicKeepalive = []byte{0xFF, 0xEE, 0xDD, 0xCC}
)

// Frame is one decoded command or reply.
//
// Wire layout:
//
//	DD EE FF 00 len | FF deviceID[11] 01 group id args... | checksum
//
// len counts the body and the checksum byte. The checksum is the low byte of
// len plus the sum of the body.
type Frame struct {
	DeviceID string
	Group    byte
	ID       byte
	Args     []byte
}

// Encode serializes f.
func (f Frame) Encode() ([]byte, error) {
	if len(f.DeviceID) != DeviceIDLength {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDeviceID, f.DeviceID)
	}
	for i := 0; i < len(f.DeviceID); i++ {
		if f.DeviceID[i] > 0x7F {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDeviceID, f.DeviceID)
		}
	}

	body := make([]byte, 0, 15+len(f.Args))
	body = append(body, 0xFF)
	body = append(body, f.DeviceID...)
	body = append(body, 0x01, f.Group, f.ID)
	body = append(body, f.Args...)

	length := len(body) + 1
	if length > 0xFF {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLong, length)
	}

	out := make([]byte, 0, headerLen+length)
	out = append(out, magicFrame...)
	out = append(out, 0x00, byte(length))
	out = append(out, body...)
	out = append(out, checksum(byte(length), body))
	return out, nil
}

// Decode parses a complete frame.
func Decode(raw []byte) (Frame, error) {
	if len(raw) < minFrameLen || !bytes.HasPrefix(raw, magicFrame) {
		return Frame{}, fmt.Errorf("%w: bad header", ErrInvalidFrame)
	}
	if len(raw) != headerLen+int(raw[4]) {
		return Frame{}, fmt.Errorf("%w: length %d, header says %d", ErrInvalidFrame, len(raw), headerLen+int(raw[4]))
	}

	body := raw[headerLen : len(raw)-1]
	if want, got := checksum(raw[4], body), raw[len(raw)-1]; want != got {
		return Frame{}, fmt.Errorf("%w: got %#02x, want %#02x", ErrBadChecksum, got, want)
	}

	return Frame{
		DeviceID: string(raw[6:17]),
		Group:    raw[18],
		ID:       raw[19],
		Args:     bytes.Clone(raw[20 : len(raw)-1]),
	}, nil
}

func checksum(length byte, body []byte) byte {
	sum := length
	for _, b := range body {
		sum += b
	}
	return sum
}

// Reader extracts frames from a byte stream. Keepalive packets and bytes
// preceding a frame header are dropped.
type Reader struct {
	r   io.Reader
	buf []byte
}

// NewReader returns a Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next frame in the stream.
func (r *Reader) Next() (Frame, error) {
	chunk := make([]byte, readChunk)
	for {
		raw, ok := r.extract()
		if ok {
			return Decode(raw)
		}

		n, err := r.r.Read(chunk)
		r.buf = append(r.buf, chunk[:n]...)
		if err != nil {
			if err == io.EOF {
				return Frame{}, ErrConnectionClosed
			}
			return Frame{}, err
		}
	}
}

// extract cuts one complete raw frame off the buffer if one is available.
func (r *Reader) extract() ([]byte, bool) {
	for len(r.buf) >= headerLen {
		if bytes.HasPrefix(r.buf, magicKeepalive) {
			if len(r.buf) < keepaliveLen {
				return nil, false
			}
			r.buf = r.buf[keepaliveLen:]
			continue
		}

		start := bytes.Index(r.buf, magicFrame)
		if start < 0 {
			// Keep a possible partial magic at the tail.
			r.buf = r.buf[len(r.buf)-len(magicFrame)+1:]
			return nil, false
		}
		if start > 0 {
			log.Tracef("Dropping %d bytes before frame header", start)
			r.buf = r.buf[start:]
			continue
		}

		total := headerLen + int(r.buf[4])
		if len(r.buf) < total {
			return nil, false
		}
		raw := r.buf[:total:total]
		r.buf = r.buf[total:]
		return raw, true
	}
	return nil, false
}
