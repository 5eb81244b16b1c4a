// Package fingerprint produces stable content digests. Values are encoded with
// CBOR core deterministic encoding so equal data always yields equal bytes,
// then hashed with keyed BLAKE3 under a per-purpose domain key.
package fingerprint

import (
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// Domain separates digests computed for different purposes.
type Domain struct {
	key [32]byte
}

// NewDomain derives a domain key from a context string.
func NewDomain(context string) Domain {
	return Domain{key: blake3.Sum256([]byte("mealguard/fingerprint/" + context))}
}

var (
	// RuleSet digests rule set definitions.
	RuleSet = NewDomain("ruleset.v1")
	// Evaluation digests evaluation inputs for cache keys.
	Evaluation = NewDomain("evaluation.v1")
)

var encMode cbor.EncMode

func init() {
	opts := cbor.CoreDetEncOptions()
	opts.TextMarshaler = cbor.TextMarshalerTextString
	var err error
	encMode, err = opts.EncMode()
	if err != nil {
		panic("fingerprint: CBOR encoder initialization failed: " + err.Error())
	}
}

// Digest is a 32-byte content hash.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first n hex characters.
func (d Digest) Short(n int) string {
	s := d.String()
	if n <= 0 || n > len(s) {
		return s
	}
	return s[:n]
}

// Encode returns the deterministic CBOR encoding of v.
func Encode(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Of encodes v and hashes the bytes under the domain key.
func Of(domain Domain, v any) (Digest, error) {
	data, err := Encode(v)
	if err != nil {
		return Digest{}, fmt.Errorf("encode for fingerprint: %w", err)
	}
	return Sum(domain, data), nil
}

// Sum hashes raw bytes under the domain key.
func Sum(domain Domain, data []byte) Digest {
	hasher, err := blake3.NewKeyed(domain.key[:])
	if err != nil {
		panic("fingerprint: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	_, _ = hasher.Write(data)
	var d Digest
	copy(d[:], hasher.Sum(nil))
	return d
}
