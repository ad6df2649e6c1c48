package storage

import (
	"crypto/subtle"

	"golang.org/x/crypto/blake2b"
)

// DigestSize is the length of the trailer appended after the payload.
const DigestSize = blake2b.Size256

type Digest [DigestSize]byte

// Sum computes the BLAKE2b-256 digest of a payload.
func Sum(payload []byte) Digest {
	return blake2b.Sum256(payload)
}

// Envelope is the integrity record of one saved or loaded file: the
// payload bytes (header included) and the trailer digest stored after them.
type Envelope struct {
	Payload []byte
	Trailer Digest
}

// Seal builds the envelope for a freshly encoded payload.
func Seal(payload []byte) Envelope {
	return Envelope{Payload: payload, Trailer: Sum(payload)}
}

// IsZero reports whether the envelope was never filled.
func (e Envelope) IsZero() bool { return e.Payload == nil }

// Verify recomputes the payload digest and compares it with the trailer.
func (e Envelope) Verify() bool {
	if e.IsZero() {
		return false
	}
	got := Sum(e.Payload)
	return subtle.ConstantTimeCompare(got[:], e.Trailer[:]) == 1
}

// Bytes returns payload followed by trailer, the exact on-disk form.
func (e Envelope) Bytes() []byte {
	out := make([]byte, 0, len(e.Payload)+DigestSize)
	out = append(out, e.Payload...)
	return append(out, e.Trailer[:]...)
}

// Open splits raw file bytes into payload and trailer without checking
// anything but the minimum length.
func Open(data []byte) (Envelope, error) {
	if len(data) < HeaderSize+DigestSize {
		return Envelope{}, errCorrupt("file too short", nil)
	}
	n := len(data) - DigestSize
	var env Envelope
	env.Payload = data[:n:n]
	copy(env.Trailer[:], data[n:])
	return env, nil
}
