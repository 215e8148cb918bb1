package icv6

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/itohio/reeflight/pkg/program"
)

// Command group of the lighting commands and the group of their replies.
const (
	GroupLighting byte = 0x0F
	GroupReply    byte = 0x5F
)

// Command ids within GroupLighting. A reply carries the id of its request.
const (
	CmdQueryMode        byte = 0x01
	CmdSetMode          byte = 0x02
	CmdPreviewIntensity byte = 0x0B
	CmdSetIntensity     byte = 0x0C
	CmdQueryIntensity   byte = 0x0D
	CmdSetProgram       byte = 0x0E
	CmdQueryProgram     byte = 0x0F
)

const (
	modeManual byte = 0x01
	modeAuto   byte = 0x02

	recordLen = 7
)

func encodeMode(m program.Mode) byte {
	if m == program.ModeManual {
		return modeManual
	}
	return modeAuto
}

func decodeMode(args []byte) (program.Mode, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("mode: %w", ErrShortResponse)
	}
	if args[0] == modeManual {
		return program.ModeManual, nil
	}
	return program.ModeAuto, nil
}

func encodeIntensity(in program.Intensity) []byte {
	return []byte{byte(in.Ch1), byte(in.Ch2), byte(in.Ch3), byte(in.Ch4)}
}

func decodeIntensity(args []byte) (program.Intensity, error) {
	if len(args) < 4 {
		return program.Intensity{}, fmt.Errorf("intensity: %w", ErrShortResponse)
	}
	return program.Intensity{
		Ch1: int(args[0]),
		Ch2: int(args[1]),
		Ch3: int(args[2]),
		Ch4: int(args[3]),
	}, nil
}

// encodeProgram writes the point count followed by one 7 byte record
// (index, hour, minute, ch1..ch4) per point, ordered by index.
func encodeProgram(p program.Program) []byte {
	points := slices.Clone(p.Points)
	slices.SortStableFunc(points, func(a, b program.ProgramPoint) int {
		return cmp.Compare(a.Index, b.Index)
	})

	out := make([]byte, 0, 1+len(points)*recordLen)
	out = append(out, byte(len(points)))
	for _, pp := range points {
		out = append(out,
			byte(pp.Index), byte(pp.Hour), byte(pp.Minute),
			byte(pp.Ch1), byte(pp.Ch2), byte(pp.Ch3), byte(pp.Ch4))
	}
	return out
}

func decodeProgram(args []byte) (program.Program, error) {
	prog := program.Program{Points: []program.ProgramPoint{}}
	if len(args) == 0 {
		return prog, nil
	}

	count := int(args[0])
	body := args[1:]
	if len(body) != count*recordLen {
		return program.Program{}, fmt.Errorf("%w: %d records in %d bytes", ErrInvalidPayload, count, len(body))
	}

	for i := 0; i < count; i++ {
		rec := body[i*recordLen : (i+1)*recordLen]
		prog.Points = append(prog.Points, program.ProgramPoint{
			Index:  int(rec[0]),
			Hour:   int(rec[1]),
			Minute: int(rec[2]),
			Ch1:    int(rec[3]),
			Ch2:    int(rec[4]),
			Ch3:    int(rec[5]),
			Ch4:    int(rec[6]),
		})
	}
	return prog, nil
}
