package icv6

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/itohio/reeflight/pkg/program"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is used when a serial dialer has no baud rate.
	DefaultBaudRate = 115200
	// DefaultTimeout bounds every request when the client has none.
	DefaultTimeout = 2 * time.Second
)

// Dialer opens a fresh connection to the controller.
type Dialer interface {
	Dial(ctx context.Context) (io.ReadWriteCloser, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context) (io.ReadWriteCloser, error)

func (f DialerFunc) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	return f(ctx)
}

// TCPDialer connects to the controller over TCP.
type TCPDialer struct {
	Address string
}

func (d TCPDialer) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", d.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", d.Address, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}
	return conn, nil
}

// SerialDialer connects to the controller through a serial port.
type SerialDialer struct {
	Port     string
	BaudRate int
}

func (d SerialDialer) Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	baud := d.BaudRate
	if baud == 0 {
		baud = DefaultBaudRate
	}

	port, err := serial.Open(d.Port, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", d.Port, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := port.SetReadTimeout(time.Until(deadline)); err != nil {
			port.Close()
			return nil, fmt.Errorf("failed to set read timeout: %w", err)
		}
	}
	return serialConn{port}, nil
}

// serialConn turns the zero length reads of an expired read timeout into an
// error so the frame reader does not spin.
type serialConn struct {
	serial.Port
}

func (c serialConn) Read(p []byte) (int, error) {
	n, err := c.Port.Read(p)
	if n == 0 && err == nil {
		return 0, context.DeadlineExceeded
	}
	return n, err
}

// Client talks to an ICV6 controller, one connection per request.
type Client struct {
	dialer   Dialer
	deviceID string
	timeout  time.Duration
}

// New creates a client addressing deviceID through dialer.
func New(dialer Dialer, deviceID string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		dialer:   dialer,
		deviceID: deviceID,
		timeout:  timeout,
	}
}

// DeviceID returns the id the client addresses.
func (c *Client) DeviceID() string {
	return c.deviceID
}

// QueryMode reports whether the controller runs manual or automatic.
func (c *Client) QueryMode(ctx context.Context) (program.Mode, error) {
	reply, err := c.request(ctx, CmdQueryMode, nil)
	if err != nil {
		return "", err
	}
	return decodeMode(reply.Args)
}

// SetMode switches the controller mode.
func (c *Client) SetMode(ctx context.Context, mode program.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("invalid mode %q", mode)
	}
	_, err := c.request(ctx, CmdSetMode, []byte{encodeMode(mode)})
	return err
}

// QueryIntensity reads the manual output levels.
func (c *Client) QueryIntensity(ctx context.Context) (program.Intensity, error) {
	reply, err := c.request(ctx, CmdQueryIntensity, nil)
	if err != nil {
		return program.Intensity{}, err
	}
	return decodeIntensity(reply.Args)
}

// SetIntensity stores manual output levels.
func (c *Client) SetIntensity(ctx context.Context, in program.Intensity) error {
	if err := in.Validate(); err != nil {
		return err
	}
	_, err := c.request(ctx, CmdSetIntensity, encodeIntensity(in))
	return err
}

// PreviewIntensity shows output levels without storing them.
func (c *Client) PreviewIntensity(ctx context.Context, in program.Intensity) error {
	if err := in.Validate(); err != nil {
		return err
	}
	_, err := c.request(ctx, CmdPreviewIntensity, encodeIntensity(in))
	return err
}

// QueryProgram reads the stored day program.
func (c *Client) QueryProgram(ctx context.Context) (program.Program, error) {
	reply, err := c.request(ctx, CmdQueryProgram, nil)
	if err != nil {
		return program.Program{}, err
	}
	return decodeProgram(reply.Args)
}

// SetProgram uploads p and returns the acknowledgement byte of the reply
// (0 when the reply carries none).
func (c *Client) SetProgram(ctx context.Context, p program.Program) (byte, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	reply, err := c.request(ctx, CmdSetProgram, encodeProgram(p))
	if err != nil {
		return 0, err
	}
	if len(reply.Args) == 0 {
		return 0, nil
	}
	return reply.Args[0], nil
}

// request sends one lighting command and waits for its reply. Frames for other
// commands are skipped.
func (c *Client) request(ctx context.Context, id byte, args []byte) (Frame, error) {
	raw, err := Frame{DeviceID: c.deviceID, Group: GroupLighting, ID: id, Args: args}.Encode()
	if err != nil {
		return Frame{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.Dial(ctx)
	if err != nil {
		return Frame{}, err
	}
	defer conn.Close()

	// Unblock pending reads and writes once the request expires.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	log.Tracef("-> %x", raw)
	if _, err := conn.Write(raw); err != nil {
		return Frame{}, c.wrap(ctx, id, fmt.Errorf("failed to send command: %w", err))
	}

	r := NewReader(conn)
	for {
		reply, err := r.Next()
		if err != nil {
			return Frame{}, c.wrap(ctx, id, err)
		}
		if reply.Group == GroupReply && reply.ID == id {
			log.Tracef("<- %02x %02x %x", reply.Group, reply.ID, reply.Args)
			return reply, nil
		}
		log.Debugf("Skipping frame %02x/%02x while waiting for %02x", reply.Group, reply.ID, id)
	}
}

func (c *Client) wrap(ctx context.Context, id byte, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	return fmt.Errorf("command %#02x: %w", id, err)
}
