package fieldset

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Hasher digests an encoded record.
type Hasher interface {
	// Hash returns the hex-encoded digest of data.
	Hash(data []byte) (string, error)
}

// blake2bHasher implements BLAKE2b-256 hashing.
type blake2bHasher struct{}

// Blake2bHasher returns a BLAKE2b-256 hasher. It is the fingerprint default.
func Blake2bHasher() Hasher {
	return blake2bHasher{}
}

func (blake2bHasher) Hash(data []byte) (string, error) {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// sha256Hasher implements SHA-256 hashing.
type sha256Hasher struct{}

// SHA256Hasher returns a SHA-256 hasher.
func SHA256Hasher() Hasher {
	return sha256Hasher{}
}

func (sha256Hasher) Hash(data []byte) (string, error) {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// sha512Hasher implements SHA-512 hashing.
type sha512Hasher struct{}

// SHA512Hasher returns a SHA-512 hasher.
func SHA512Hasher() Hasher {
	return sha512Hasher{}
}

func (sha512Hasher) Hash(data []byte) (string, error) {
	sum := sha512.Sum512(data)
	return hex.EncodeToString(sum[:]), nil
}

// Fingerprint returns the BLAKE2b-256 digest of the binary encoding of rec.
// Records with equal encodings have equal fingerprints. Equal does not imply
// that for float64 fields: -0 and +0 compare equal, as do NaNs with different
// payloads, yet their encodings differ. float32 fields pack both zeros and all
// NaNs to the same bits.
func (r *Registry[R]) Fingerprint(rec *R) (string, error) {
	return r.FingerprintWith(Blake2bHasher(), rec)
}

// FingerprintWith digests the binary encoding of rec with h.
func (r *Registry[R]) FingerprintWith(h Hasher, rec *R) (string, error) {
	buf := make([]byte, r.Size(rec))
	n, err := r.Encode(buf, rec)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return h.Hash(buf[:n])
}

// Fingerprint returns the BLAKE2b-256 digest of the view encoding, mask
// header included.
func (v *View[R]) Fingerprint() (string, error) {
	return v.FingerprintWith(Blake2bHasher())
}

// FingerprintWith digests the view encoding with h.
func (v *View[R]) FingerprintWith(h Hasher) (string, error) {
	buf := make([]byte, v.Size())
	n, err := v.Encode(buf)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return h.Hash(buf[:n])
}
