// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package snrp implements SnrpProfile: the scrypt parameter bundle ("Salt +
// N + r + p") used throughout the derivation graph in two flavors — a fixed
// server profile shared by every client, and randomly-salted client
// profiles minted once at account creation.
package snrp

import (
	"fmt"

	"github.com/vaultwire/walletcore/internal/cryptoprim"
)

// Profile is a scrypt parameter bundle, serialized exactly as
// { "salt_hex": ..., "n": ..., "r": ..., "p": ... }.
type Profile struct {
	SaltHex string `json:"salt_hex"`
	N       int    `json:"n"`
	R       int    `json:"r"`
	P       int    `json:"p"`
}

// serverSaltHex is the compiled-in salt for the server profile S1. Every
// client and the server derive identical L1/P1/LRA1 tokens from it, so it
// must never change once deployed.
const serverSaltHex = "b5865ffb9fa7b3bfe4b2384d47ce831ee22a4a9d5c34c7ef7d21467cc758f81b"

const (
	serverN = 1 << 16 // 65536
	serverR = 8
	serverP = 1

	clientN = 1 << 14 // 16384
	clientR = 8
	clientP = 1

	clientSaltSize = 32
)

// ServerProfile returns S1: the fixed-salt, fixed-parameter profile known to
// both client and server, used to derive L1, P1, and LRA1.
func ServerProfile() Profile {
	return Profile{SaltHex: serverSaltHex, N: serverN, R: serverR, P: serverP}
}

// NewClientProfile mints a fresh client profile (S2, S3, or S4) with a
// random 32-byte salt and cost parameters sized to take roughly a second on
// a contemporary mobile device. Called once per profile at account
// creation (S2, S3, S4) and again at set-recovery time (a fresh S3).
func NewClientProfile() (Profile, error) {
	salt, err := cryptoprim.RandomBytes(clientSaltSize)
	if err != nil {
		return Profile{}, fmt.Errorf("snrp: new client profile: %w", err)
	}
	return Profile{SaltHex: cryptoprim.Base16Encode(salt), N: clientN, R: clientR, P: clientP}, nil
}

// Salt decodes SaltHex.
func (p Profile) Salt() ([]byte, error) {
	salt, err := cryptoprim.Base16Decode(p.SaltHex)
	if err != nil {
		return nil, fmt.Errorf("snrp: decode salt: %w", err)
	}
	return salt, nil
}

// Derive applies scrypt(data, p) -> 32 bytes, as used throughout the
// derivation graph in spec §3.
func (p Profile) Derive(data []byte) ([]byte, error) {
	salt, err := p.Salt()
	if err != nil {
		return nil, err
	}
	return cryptoprim.Scrypt(data, salt, p.N, p.R, p.P)
}
