// Package errs defines the error values returned by voxsec packages.
//
// Every decode-related failure carries a discriminated Kind. Callers can branch on
// the sentinel with errors.Is, or recover the kind and detail with errors.As:
//
//	if errors.Is(err, errs.ErrMalformedBuffer) {
//	    // re-fetch the raw section
//	}
//
//	var de *errs.DecodeError
//	if errors.As(err, &de) {
//	    log.Printf("decode failed: kind=%s detail=%s", de.Kind, de.Detail)
//	}
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a decode or contract failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindMalformedBuffer
	KindPaletteIndexOutOfRange
	KindStructuralMismatch
	KindCoordinateOutOfRange
	KindInvalidLightLength
	KindInvalidBitsPerBlock
	KindValueOutOfRange
	KindInvalidHeader
	KindChecksumMismatch
	KindUnsupportedCompression
	KindInvalidPayload
)

// Section decoding errors.
var (
	ErrMalformedBuffer         = errors.New("malformed block buffer")
	ErrPaletteIndexOutOfRange  = errors.New("palette index out of range")
	ErrStructuralMismatch      = errors.New("section structural mismatch")
	ErrCoordinateOutOfRange    = errors.New("local coordinate out of range")
	ErrInvalidLightLength      = errors.New("invalid light buffer length")
	ErrInvalidBitsPerBlock     = errors.New("invalid bits per block")
	ErrValueOutOfRange         = errors.New("value does not fit bit width")
	ErrInvalidHeader           = errors.New("invalid archive header")
	ErrChecksumMismatch        = errors.New("archive checksum mismatch")
	ErrUnsupportedCompression  = errors.New("unsupported compression type")
	ErrInvalidPayload          = errors.New("invalid archive payload")
	errUnknown                 = errors.New("unknown error")
)

// Event bus and worker errors.
var (
	ErrBusClosed   = errors.New("event bus closed")
	ErrPayloadType = errors.New("event payload type mismatch")
	ErrPoolClosed  = errors.New("decode pool closed")

	ErrInvalidEventName = errors.New("invalid event name")
	ErrHashCollision    = errors.New("event name hash collision")
)

var kindSentinels = map[Kind]error{
	KindMalformedBuffer:        ErrMalformedBuffer,
	KindPaletteIndexOutOfRange: ErrPaletteIndexOutOfRange,
	KindStructuralMismatch:     ErrStructuralMismatch,
	KindCoordinateOutOfRange:   ErrCoordinateOutOfRange,
	KindInvalidLightLength:     ErrInvalidLightLength,
	KindInvalidBitsPerBlock:    ErrInvalidBitsPerBlock,
	KindValueOutOfRange:        ErrValueOutOfRange,
	KindInvalidHeader:          ErrInvalidHeader,
	KindChecksumMismatch:       ErrChecksumMismatch,
	KindUnsupportedCompression: ErrUnsupportedCompression,
	KindInvalidPayload:         ErrInvalidPayload,
}

func (k Kind) String() string {
	switch k {
	case KindMalformedBuffer:
		return "MalformedBuffer"
	case KindPaletteIndexOutOfRange:
		return "PaletteIndexOutOfRange"
	case KindStructuralMismatch:
		return "StructuralMismatch"
	case KindCoordinateOutOfRange:
		return "CoordinateOutOfRange"
	case KindInvalidLightLength:
		return "InvalidLightLength"
	case KindInvalidBitsPerBlock:
		return "InvalidBitsPerBlock"
	case KindValueOutOfRange:
		return "ValueOutOfRange"
	case KindInvalidHeader:
		return "InvalidHeader"
	case KindChecksumMismatch:
		return "ChecksumMismatch"
	case KindUnsupportedCompression:
		return "UnsupportedCompression"
	case KindInvalidPayload:
		return "InvalidPayload"
	default:
		return "Unknown"
	}
}

// Sentinel returns the sentinel error associated with the kind.
func (k Kind) Sentinel() error {
	if err, ok := kindSentinels[k]; ok {
		return err
	}

	return errUnknown
}

// DecodeError is a typed failure with a discriminated kind and a human readable detail.
//
// DecodeError unwraps to the sentinel of its kind.
type DecodeError struct {
	Kind   Kind
	Detail string
}

// New creates a DecodeError of the given kind with a formatted detail message.
func New(kind Kind, format string, args ...any) *DecodeError {
	return &DecodeError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return e.Kind.Sentinel().Error()
	}

	return e.Kind.Sentinel().Error() + ": " + e.Detail
}

func (e *DecodeError) Unwrap() error {
	return e.Kind.Sentinel()
}

// KindOf extracts the Kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Kind, true
	}

	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind, true
		}
	}

	return KindUnknown, false
}
