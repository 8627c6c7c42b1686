package emv

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedPayload signals a structural TLV violation: truncated length or
// value, a non-numeric length field, or a cursor overrun. Decoding aborts
// rather than returning a best-effort partial result.
var ErrMalformedPayload = errors.New("malformed TLV payload")

// maxValueLen is the largest value a 2-digit decimal length prefix can carry.
const maxValueLen = 99

// Field is a single tag/value pair. The length is implicit: it is derived
// from the value at encode time.
type Field struct {
	Tag   string
	Value string
}

// EncodeTLV serializes fields in input order as tag + zero-padded 2-digit
// length + value. Order matters: it is part of the wire format.
func EncodeTLV(fields []Field) (string, error) {
	var b strings.Builder
	for _, f := range fields {
		if len(f.Tag) != 2 {
			return "", fmt.Errorf("tag %q: tag must be exactly 2 characters", f.Tag)
		}
		if len(f.Value) > maxValueLen {
			return "", fmt.Errorf("tag %s: value length %d exceeds %d", f.Tag, len(f.Value), maxValueLen)
		}
		// The CRC signs raw bytes, so the signed region must stay pure ASCII
		// to be reproducible across implementations.
		for i := 0; i < len(f.Value); i++ {
			if f.Value[i] > 0x7F {
				return "", fmt.Errorf("tag %s: value contains non-ASCII byte at index %d", f.Tag, i)
			}
		}
		fmt.Fprintf(&b, "%s%02d%s", f.Tag, len(f.Value), f.Value)
	}
	return b.String(), nil
}

// DecodeTLV scans data with a single forward pass: 2 chars tag, 2 chars
// decimal length, length chars value. Every bounds violation surfaces as
// ErrMalformedPayload.
func DecodeTLV(data string) (map[string]string, error) {
	out := make(map[string]string)
	cursor := 0
	for cursor < len(data) {
		if cursor+4 > len(data) {
			return nil, fmt.Errorf("%w: truncated field header at offset %d", ErrMalformedPayload, cursor)
		}
		tag := data[cursor : cursor+2]
		lengthStr := data[cursor+2 : cursor+4]
		length, err := strconv.Atoi(lengthStr)
		if err != nil || length < 0 {
			return nil, fmt.Errorf("%w: non-numeric length %q for tag %s", ErrMalformedPayload, lengthStr, tag)
		}
		cursor += 4
		if cursor+length > len(data) {
			return nil, fmt.Errorf("%w: value for tag %s runs past end of payload", ErrMalformedPayload, tag)
		}
		out[tag] = data[cursor : cursor+length]
		cursor += length
	}
	return out, nil
}
