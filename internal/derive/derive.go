// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package derive implements KeyDerivation: the stateless functions that walk
// the derivation graph from identity inputs (username, password, recovery
// answers) and a set of SnrpProfiles down to the typed keys everything else
// in walletcore consumes. Nothing here ever logs or returns an intermediate
// that the caller didn't explicitly ask for.
package derive

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/vaultwire/walletcore/internal/cryptoprim"
	"github.com/vaultwire/walletcore/internal/seckey"
	"github.com/vaultwire/walletcore/internal/snrp"
)

// ErrBadUsername is returned by CanonicalizeUsername when the input contains
// a byte outside printable ASCII once whitespace has been collapsed.
var ErrBadUsername = errors.New("derive: bad username")

// CanonicalizeUsername collapses internal whitespace runs to a single
// space, trims the ends, folds A-Z to a-z, and rejects anything outside
// printable ASCII. Applied everywhere a username becomes an identity input.
func CanonicalizeUsername(username string) (string, error) {
	var b strings.Builder
	lastWasSpace := false
	trimmed := strings.TrimFunc(username, unicode.IsSpace)

	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			if lastWasSpace {
				continue
			}
			lastWasSpace = true
			b.WriteByte(' ')
			continue
		}
		lastWasSpace = false
		if r < 0x20 || r > 0x7E {
			return "", ErrBadUsername
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}

	out := b.String()
	if out == "" {
		return "", ErrBadUsername
	}
	return out, nil
}

// L returns the identity seed: the UTF-8 bytes of the canonical username.
func L(canonicalUsername string) []byte {
	return []byte(canonicalUsername)
}

// LRA returns the recovery seed L || recoveryAnswers.
func LRA(canonicalUsername, recoveryAnswers string) []byte {
	return append(append([]byte{}, L(canonicalUsername)...), []byte(recoveryAnswers)...)
}

// LP returns the composite L || P.
func LP(canonicalUsername, password string) []byte {
	return append(append([]byte{}, L(canonicalUsername)...), []byte(password)...)
}

// DeriveL1 computes L1 = scrypt(L, S1), the server-visible account
// identifier.
func DeriveL1(canonicalUsername string, s1 snrp.Profile) (seckey.L1, error) {
	raw, err := s1.Derive(L(canonicalUsername))
	if err != nil {
		return seckey.L1{}, err
	}
	return seckey.NewL1(raw)
}

// DeriveP1 computes P1 = scrypt(P, S1), the server-visible password token.
func DeriveP1(password string, s1 snrp.Profile) (seckey.P1, error) {
	raw, err := s1.Derive([]byte(password))
	if err != nil {
		return seckey.P1{}, err
	}
	return seckey.NewP1(raw)
}

// DeriveLRA1 computes LRA1 = scrypt(LRA, S1), the server-visible recovery
// token.
func DeriveLRA1(canonicalUsername, recoveryAnswers string, s1 snrp.Profile) (seckey.LRA1, error) {
	raw, err := s1.Derive(LRA(canonicalUsername, recoveryAnswers))
	if err != nil {
		return seckey.LRA1{}, err
	}
	return seckey.NewLRA1(raw)
}

// DeriveL2 computes L2 = scrypt(L, S4), the local key guarding the
// encrypted sync-repo key.
func DeriveL2(canonicalUsername string, s4 snrp.Profile) (seckey.L2, error) {
	raw, err := s4.Derive(L(canonicalUsername))
	if err != nil {
		return seckey.L2{}, err
	}
	return seckey.NewL2(raw)
}

// DeriveLP2 computes LP2 = scrypt(LP, S2), the local key guarding the
// encrypted master key.
func DeriveLP2(canonicalUsername, password string, s2 snrp.Profile) (seckey.LP2, error) {
	raw, err := s2.Derive(LP(canonicalUsername, password))
	if err != nil {
		return seckey.LP2{}, err
	}
	return seckey.NewLP2(raw)
}

// DeriveLRA2 computes LRA2 = scrypt(LRA, S3), the local key guarding the
// recovery copy of LP2.
func DeriveLRA2(canonicalUsername, recoveryAnswers string, s3 snrp.Profile) (seckey.LRA2, error) {
	raw, err := s3.Derive(LRA(canonicalUsername, recoveryAnswers))
	if err != nil {
		return seckey.LRA2{}, err
	}
	return seckey.NewLRA2(raw)
}

// NewMK generates a fresh 32-byte master key, used once at account creation.
func NewMK() (seckey.MK, error) {
	raw, err := cryptoprim.RandomBytes(cryptoprim.AESKeySize)
	if err != nil {
		return seckey.MK{}, err
	}
	return seckey.NewMK(raw)
}

// NewSyncKey generates a fresh random 20-byte sync-repo path token.
func NewSyncKey() (seckey.SyncKey, error) {
	raw, err := cryptoprim.RandomBytes(20)
	if err != nil {
		return seckey.SyncKey{}, err
	}
	return seckey.NewSyncKey(raw)
}

// CurrentTOTP computes the 6-digit TOTP code for an OTP key at t, as read
// from OtpKey.json and used when resubmitting a sign-in challenged for a
// second factor.
func CurrentTOTP(otpKey []byte, t time.Time) string {
	return cryptoprim.TOTP(otpKey, t)
}
