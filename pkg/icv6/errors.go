package icv6

import "errors"

var (
	ErrInvalidFrame     = errors.New("invalid frame")
	ErrBadChecksum      = errors.New("bad checksum")
	ErrFrameTooLong     = errors.New("frame too long")
	ErrShortResponse    = errors.New("response too short")
	ErrInvalidPayload   = errors.New("invalid program payload")
	ErrInvalidDeviceID  = errors.New("device id must be 11 ascii characters")
	ErrConnectionClosed = errors.New("connection closed before expected response")
)
