// Package crc16 implements the CRC16-CCITT checksum used to seal EMVCo
// merchant-presented QR payloads (polynomial 0x1021, initial value 0xFFFF).
package crc16

import "fmt"

const (
	polynomial = 0x1021
	initial    = 0xFFFF
)

// Checksum computes the CRC16-CCITT of data and returns it as a 4-character
// uppercase hex string. Each input character contributes the low byte of its
// code point; the TLV layer guarantees the signed region is pure ASCII, so
// the result is byte-for-byte stable across implementations.
func Checksum(data string) string {
	crc := uint32(initial)
	for _, r := range data {
		crc ^= (uint32(r) & 0xFF) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ polynomial
			} else {
				crc <<= 1
			}
			crc &= 0xFFFF
		}
	}
	return fmt.Sprintf("%04X", crc)
}

// Validate reports whether the last 4 characters of payload equal the
// checksum of everything preceding them.
func Validate(payload string) bool {
	if len(payload) < 4 {
		return false
	}
	body := payload[:len(payload)-4]
	return Checksum(body) == payload[len(payload)-4:]
}
