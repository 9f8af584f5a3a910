// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package seckey gives every secret produced by the key-derivation graph its
// own Go type, each backed by a memguard.LockedBuffer so the bytes are
// zeroized as soon as the key is no longer needed. Distinct types prevent a
// caller from passing, say, an LP2 where an MK is expected — a mistake the
// compiler now catches instead of a runtime memory scan.
package seckey

import (
	"errors"

	"github.com/awnumar/memguard"
)

// ErrEmpty is returned when constructing a typed key from a zero-length
// slice, which always indicates a programming error upstream.
var ErrEmpty = errors.New("seckey: empty key material")

// secret is the shared LockedBuffer wrapper every typed key embeds.
type secret struct {
	buf *memguard.LockedBuffer
}

func newSecret(b []byte) (secret, error) {
	if len(b) == 0 {
		return secret{}, ErrEmpty
	}
	buf := memguard.NewBuffer(len(b))
	if buf == nil {
		return secret{}, errors.New("seckey: failed to allocate locked buffer")
	}
	copy(buf.Bytes(), b)
	return secret{buf: buf}, nil
}

// Bytes returns the live, still-locked byte slice. The caller must not
// retain it past a call to Destroy.
func (s secret) Bytes() []byte {
	if s.buf == nil {
		return nil
	}
	return s.buf.Bytes()
}

// Destroy wipes the underlying buffer. Safe to call more than once.
func (s secret) Destroy() {
	if s.buf != nil {
		s.buf.Destroy()
	}
}

// P is the user's raw password, held only long enough to derive LP and P1.
type P struct{ secret }

// NewP wraps password bytes as a P.
func NewP(b []byte) (P, error) {
	s, err := newSecret(b)
	return P{s}, err
}

// LP is L || P, the passphrase input to LP2's derivation.
type LP struct{ secret }

// NewLP wraps L||P concatenation bytes as an LP.
func NewLP(b []byte) (LP, error) {
	s, err := newSecret(b)
	return LP{s}, err
}

// LRA is L || recoveryAnswers, the recovery seed input.
type LRA struct{ secret }

// NewLRA wraps the recovery seed bytes as an LRA.
func NewLRA(b []byte) (LRA, error) {
	s, err := newSecret(b)
	return LRA{s}, err
}

// L1 is scrypt(L, S1): the server-visible account identifier.
type L1 struct{ secret }

// NewL1 wraps derived L1 bytes.
func NewL1(b []byte) (L1, error) {
	s, err := newSecret(b)
	return L1{s}, err
}

// P1 is scrypt(P, S1): the server-visible password token.
type P1 struct{ secret }

// NewP1 wraps derived P1 bytes.
func NewP1(b []byte) (P1, error) {
	s, err := newSecret(b)
	return P1{s}, err
}

// LRA1 is scrypt(LRA, S1): the server-visible recovery token.
type LRA1 struct{ secret }

// NewLRA1 wraps derived LRA1 bytes.
func NewLRA1(b []byte) (LRA1, error) {
	s, err := newSecret(b)
	return LRA1{s}, err
}

// L2 is scrypt(L, S4): the local key guarding the encrypted sync-repo key.
type L2 struct{ secret }

// NewL2 wraps derived L2 bytes.
func NewL2(b []byte) (L2, error) {
	s, err := newSecret(b)
	return L2{s}, err
}

// LP2 is scrypt(LP, S2): the local key guarding the encrypted master key.
type LP2 struct{ secret }

// NewLP2 wraps derived LP2 bytes.
func NewLP2(b []byte) (LP2, error) {
	s, err := newSecret(b)
	return LP2{s}, err
}

// LRA2 is scrypt(LRA, S3): the local key guarding the recovery copy of LP2.
type LRA2 struct{ secret }

// NewLRA2 wraps derived LRA2 bytes.
func NewLRA2(b []byte) (LRA2, error) {
	s, err := newSecret(b)
	return LRA2{s}, err
}

// MK is the random 32-byte master key generated once at account creation.
type MK struct{ secret }

// NewMK wraps master-key bytes.
func NewMK(b []byte) (MK, error) {
	s, err := newSecret(b)
	return MK{s}, err
}

// SyncKey is the random 20-byte, hex-encoded path token for the account's
// personal sync repo. Stored as the raw 20 bytes; callers hex-encode via
// cryptoprim.Base16Encode when a path string is needed.
type SyncKey struct{ secret }

// NewSyncKey wraps sync-key bytes.
func NewSyncKey(b []byte) (SyncKey, error) {
	s, err := newSecret(b)
	return SyncKey{s}, err
}
