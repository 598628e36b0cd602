// Package rawlog decodes CANBadger raw logs: a stream of CAN frames, each a
// fixed 14-byte header followed by a payload whose length is the header's
// last byte.
package rawlog

// Interface identifies the bus a frame was captured on and its ID format.
type Interface uint8

const (
	Unknown Interface = iota
	CAN1Standard
	CAN2Standard
	CAN1Extended
	CAN2Extended
)

// Raw tag bytes as written by the CANBadger logger.
const (
	TagCAN1Standard byte = 21
	TagCAN2Standard byte = 22
	TagCAN1Extended byte = 37
	TagCAN2Extended byte = 28
)

// InterfaceFromTag maps a raw tag byte to its Interface. Tags outside the
// known four yield Unknown.
func InterfaceFromTag(tag byte) Interface {
	switch tag {
	case TagCAN1Standard:
		return CAN1Standard
	case TagCAN2Standard:
		return CAN2Standard
	case TagCAN1Extended:
		return CAN1Extended
	case TagCAN2Extended:
		return CAN2Extended
	default:
		return Unknown
	}
}

// Bus returns "CAN1", "CAN2" or "INV".
func (i Interface) Bus() string {
	switch i {
	case CAN1Standard, CAN1Extended:
		return "CAN1"
	case CAN2Standard, CAN2Extended:
		return "CAN2"
	default:
		return "INV"
	}
}

// Format returns "Standard", "Extended" or "INV".
func (i Interface) Format() string {
	switch i {
	case CAN1Standard, CAN2Standard:
		return "Standard"
	case CAN1Extended, CAN2Extended:
		return "Extended"
	default:
		return "INV"
	}
}

// String returns the two-field label used in parsed logs, e.g. "CAN1, Standard".
func (i Interface) String() string {
	return i.Bus() + ", " + i.Format()
}

// Frame is one decoded raw log record.
type Frame struct {
	Tag       byte      `cbor:"tag"`
	Interface Interface `cbor:"-"`
	Timestamp uint32    `cbor:"timestamp"` // microseconds since logging started
	ID        uint32    `cbor:"id"`
	Speed     uint32    `cbor:"speed"` // bus speed in bit/s
	Length    uint8     `cbor:"length"`
	Data      []byte    `cbor:"data"`
}
