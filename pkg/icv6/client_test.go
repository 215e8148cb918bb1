package icv6

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/itohio/reeflight/pkg/program"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeController answers one request per connection over net.Pipe.
type fakeController struct {
	t        *testing.T
	handle   func(req Frame) [][]byte
	dials    atomic.Int32
	requests chan Frame
}

func newFakeController(t *testing.T, handle func(req Frame) [][]byte) *fakeController {
	return &fakeController{t: t, handle: handle, requests: make(chan Frame, 16)}
}

func (f *fakeController) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	f.dials.Add(1)
	client, server := net.Pipe()
	go f.serve(server)
	return client, nil
}

func (f *fakeController) serve(conn net.Conn) {
	defer conn.Close()

	r := NewReader(conn)
	req, err := r.Next()
	if err != nil {
		return
	}
	f.requests <- req

	chunks := f.handle(req)
	for _, chunk := range chunks {
		if _, err := conn.Write(chunk); err != nil {
			return
		}
	}
	if chunks == nil {
		// Stay silent until the client gives up.
		r.Next()
	}
}

func reply(t *testing.T, id byte, args ...byte) []byte {
	t.Helper()
	raw, err := Frame{DeviceID: testDeviceID, Group: GroupReply, ID: id, Args: args}.Encode()
	require.NoError(t, err)
	return raw
}

func TestClient_QueryMode(t *testing.T) {
	tests := []struct {
		name string
		arg  byte
		want program.Mode
	}{
		{"manual", 0x01, program.ModeManual},
		{"auto", 0x02, program.ModeAuto},
		{"unknown reads as auto", 0x07, program.ModeAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeController(t, func(req Frame) [][]byte {
				return [][]byte{reply(t, req.ID, tt.arg)}
			})
			c := New(dev, testDeviceID, time.Second)

			mode, err := c.QueryMode(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)

			req := <-dev.requests
			assert.Equal(t, Frame{DeviceID: testDeviceID, Group: GroupLighting, ID: CmdQueryMode, Args: []byte{}}, req)
		})
	}
}

func TestClient_SetMode(t *testing.T) {
	dev := newFakeController(t, func(req Frame) [][]byte {
		return [][]byte{reply(t, req.ID)}
	})
	c := New(dev, testDeviceID, time.Second)

	require.NoError(t, c.SetMode(context.Background(), program.ModeManual))
	assert.Equal(t, []byte{0x01}, (<-dev.requests).Args)

	require.NoError(t, c.SetMode(context.Background(), program.ModeAuto))
	assert.Equal(t, []byte{0x02}, (<-dev.requests).Args)

	assert.Error(t, c.SetMode(context.Background(), program.Mode("party")))
	assert.EqualValues(t, 2, dev.dials.Load())
}

func TestClient_Intensity(t *testing.T) {
	dev := newFakeController(t, func(req Frame) [][]byte {
		if req.ID == CmdQueryIntensity {
			return [][]byte{reply(t, req.ID, 10, 20, 30, 40)}
		}
		return [][]byte{reply(t, req.ID)}
	})
	c := New(dev, testDeviceID, time.Second)
	ctx := context.Background()

	in, err := c.QueryIntensity(ctx)
	require.NoError(t, err)
	assert.Equal(t, program.Intensity{Ch1: 10, Ch2: 20, Ch3: 30, Ch4: 40}, in)
	<-dev.requests

	require.NoError(t, c.SetIntensity(ctx, program.Intensity{Ch1: 1, Ch2: 2, Ch3: 3, Ch4: 100}))
	req := <-dev.requests
	assert.Equal(t, CmdSetIntensity, req.ID)
	assert.Equal(t, []byte{1, 2, 3, 100}, req.Args)

	require.NoError(t, c.PreviewIntensity(ctx, program.Intensity{Ch1: 5}))
	req = <-dev.requests
	assert.Equal(t, CmdPreviewIntensity, req.ID)
	assert.Equal(t, []byte{5, 0, 0, 0}, req.Args)

	var verr *program.ValidationError
	assert.ErrorAs(t, c.SetIntensity(ctx, program.Intensity{Ch2: 101}), &verr)
	assert.EqualValues(t, 3, dev.dials.Load())
}

func TestClient_Program(t *testing.T) {
	prog := program.Program{Points: []program.ProgramPoint{
		{Index: 1, Hour: 8, Minute: 0},
		{Index: 2, Hour: 10, Minute: 30, Ch1: 50, Ch2: 40, Ch3: 30, Ch4: 20},
	}}

	dev := newFakeController(t, func(req Frame) [][]byte {
		switch req.ID {
		case CmdQueryProgram:
			return [][]byte{
				{0xFF, 0xEE, 0xDD, 0xCC, 0, 0, 0, 0, 0},
				reply(t, CmdQueryMode, 0x02),
				reply(t, req.ID, encodeProgram(prog)...),
			}
		case CmdSetProgram:
			return [][]byte{reply(t, req.ID, 0x01)}
		}
		return nil
	})
	c := New(dev, testDeviceID, time.Second)
	ctx := context.Background()

	got, err := c.QueryProgram(ctx)
	require.NoError(t, err)
	assert.Equal(t, prog, got)
	<-dev.requests

	ack, err := c.SetProgram(ctx, prog)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), ack)
	assert.Equal(t, encodeProgram(prog), (<-dev.requests).Args)

	_, err = c.SetProgram(ctx, program.Program{Points: []program.ProgramPoint{{Index: 0}}})
	var verr *program.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		handle func(t *testing.T, req Frame) [][]byte
		want   error
	}{
		{
			name: "short intensity",
			handle: func(t *testing.T, req Frame) [][]byte {
				return [][]byte{reply(t, req.ID, 1, 2)}
			},
			want: ErrShortResponse,
		},
		{
			name: "closed without reply",
			handle: func(t *testing.T, req Frame) [][]byte {
				return [][]byte{}
			},
			want: ErrConnectionClosed,
		},
		{
			name: "no reply",
			handle: func(t *testing.T, req Frame) [][]byte {
				return nil
			},
			want: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := newFakeController(t, func(req Frame) [][]byte { return tt.handle(t, req) })
			c := New(dev, testDeviceID, 100*time.Millisecond)

			_, err := c.QueryIntensity(context.Background())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_DialError(t *testing.T) {
	dialErr := errors.New("no route")
	c := New(DialerFunc(func(ctx context.Context) (io.ReadWriteCloser, error) {
		return nil, dialErr
	}), testDeviceID, 0)

	_, err := c.QueryMode(context.Background())
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestClient_InvalidDeviceID(t *testing.T) {
	dev := newFakeController(t, nil)
	c := New(dev, "short", time.Second)

	_, err := c.QueryMode(context.Background())
	assert.ErrorIs(t, err, ErrInvalidDeviceID)
	assert.Zero(t, dev.dials.Load())
}

func TestTCPDialer(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := NewReader(conn)
		req, err := r.Next()
		if err != nil {
			return
		}
		raw, _ := Frame{DeviceID: req.DeviceID, Group: GroupReply, ID: req.ID, Args: []byte{0x01}}.Encode()
		conn.Write(raw)
	}()

	c := New(TCPDialer{Address: l.Addr().String()}, testDeviceID, time.Second)
	mode, err := c.QueryMode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, program.ModeManual, mode)
}

func TestProgramPayload(t *testing.T) {
	prog := program.Program{Points: []program.ProgramPoint{
		{Index: 2, Hour: 10, Minute: 30, Ch1: 50, Ch2: 40, Ch3: 30, Ch4: 20},
		{Index: 1, Hour: 8, Minute: 0},
	}}

	payload := encodeProgram(prog)
	assert.Equal(t, []byte{2, 1, 8, 0, 0, 0, 0, 0, 2, 10, 30, 50, 40, 30, 20}, payload)

	decoded, err := decodeProgram(payload)
	require.NoError(t, err)
	require.Len(t, decoded.Points, 2)
	assert.Equal(t, 1, decoded.Points[0].Index)
	assert.Equal(t, 10, decoded.Points[1].Hour)
	assert.Equal(t, 20, decoded.Points[1].Ch4)

	empty, err := decodeProgram(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Points)

	_, err = decodeProgram([]byte{2, 1, 8, 0, 1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
