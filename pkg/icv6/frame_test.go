package icv6

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDeviceID = "R5S2A000188"

var setManualFrame = []byte{
	0xDD, 0xEE, 0xFF, 0x00, 0x11,
	0xFF, 'R', '5', 'S', '2', 'A', '0', '0', '0', '1', '8', '8',
	0x01, 0x0F, 0x02, 0x01,
	0xA1,
}

func TestFrame_Encode(t *testing.T) {
	raw, err := Frame{DeviceID: testDeviceID, Group: GroupLighting, ID: CmdSetMode, Args: []byte{0x01}}.Encode()
	require.NoError(t, err)
	assert.Equal(t, setManualFrame, raw)
}

func TestFrame_EncodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		want  error
	}{
		{"short device id", Frame{DeviceID: "R5S2"}, ErrInvalidDeviceID},
		{"non ascii device id", Frame{DeviceID: "R5S2A00018é"}, ErrInvalidDeviceID},
		{"too long", Frame{DeviceID: testDeviceID, Args: make([]byte, 240)}, ErrFrameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.frame.Encode()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode(t *testing.T) {
	f, err := Decode(setManualFrame)
	require.NoError(t, err)
	assert.Equal(t, Frame{DeviceID: testDeviceID, Group: 0x0F, ID: 0x02, Args: []byte{0x01}}, f)
}

func TestDecode_Errors(t *testing.T) {
	badChecksum := bytes.Clone(setManualFrame)
	badChecksum[len(badChecksum)-1]++

	badLength := bytes.Clone(setManualFrame)
	badLength[4]++

	badMagic := bytes.Clone(setManualFrame)
	badMagic[0] = 0x00

	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"checksum", badChecksum, ErrBadChecksum},
		{"length", badLength, ErrInvalidFrame},
		{"magic", badMagic, ErrInvalidFrame},
		{"short", setManualFrame[:20], ErrInvalidFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReader_Next(t *testing.T) {
	reply, err := Frame{DeviceID: testDeviceID, Group: GroupReply, ID: CmdQueryMode, Args: []byte{0x02}}.Encode()
	require.NoError(t, err)

	var stream []byte
	// garbage, keepalive, two frames
	stream = append(stream, 0x00, 0x13, 0x37)
	stream = append(stream, 0xFF, 0xEE, 0xDD, 0xCC, 0x01, 0x02, 0x03, 0x04, 0x05)
	stream = append(stream, setManualFrame...)
	stream = append(stream, reply...)

	tests := []struct {
		name string
		r    io.Reader
	}{
		{"whole", bytes.NewReader(stream)},
		{"byte by byte", iotest.OneByteReader(bytes.NewReader(stream))},
		{"half", iotest.HalfReader(bytes.NewReader(stream))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(tt.r)

			f, err := r.Next()
			require.NoError(t, err)
			assert.Equal(t, CmdSetMode, f.ID)

			f, err = r.Next()
			require.NoError(t, err)
			assert.Equal(t, GroupReply, f.Group)
			assert.Equal(t, []byte{0x02}, f.Args)

			_, err = r.Next()
			assert.ErrorIs(t, err, ErrConnectionClosed)
		})
	}
}

func TestReader_SplitMagic(t *testing.T) {
	// Noise ending in the first magic bytes must not swallow the frame.
	stream := append([]byte{0x01, 0x02, 0x03, 0x04, 0xDD, 0xEE}, setManualFrame[2:]...)
	r := NewReader(iotest.OneByteReader(bytes.NewReader(stream)))

	f, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, testDeviceID, f.DeviceID)
}
