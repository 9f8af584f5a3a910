// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cryptoprim

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"math/big"
)

// Base16Encode returns the lowercase hex encoding of b.
func Base16Encode(b []byte) string { return hex.EncodeToString(b) }

// Base16Decode decodes a hex string produced by Base16Encode.
func Base16Decode(s string) ([]byte, error) { return hex.DecodeString(s) }

// Base64Encode returns the standard (padded) base64 encoding of b, the
// encoding used by the "data" field of EncryptedJsonEnvelope.
func Base64Encode(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// Base64Decode decodes a standard base64 string produced by Base64Encode.
func Base64Decode(s string) ([]byte, error) { return base64.StdEncoding.DecodeString(s) }

// totpEncoding is RFC 4648 base32 without padding, the alphabet used by
// authenticator apps for TOTP secrets.
var totpEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Base32Encode encodes b using the TOTP (RFC 4648, unpadded) alphabet.
func Base32Encode(b []byte) string { return totpEncoding.EncodeToString(b) }

// Base32Decode decodes a string produced by Base32Encode.
func Base32Decode(s string) ([]byte, error) { return totpEncoding.DecodeString(s) }

// base58Alphabet is the Bitcoin base58 alphabet: base64 minus 0, O, I, l,
// and + /, ordered so that lexical byte comparison of the alphabet matches
// numeric order.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var (
	base58Base       = big.NewInt(58)
	base58AlphabetIdx [256]int8
)

func init() {
	for i := range base58AlphabetIdx {
		base58AlphabetIdx[i] = -1
	}
	for i, c := range base58Alphabet {
		base58AlphabetIdx[c] = int8(i)
	}
}

// ErrInvalidBase58 is returned by Base58Decode when the input contains a
// character outside the Bitcoin base58 alphabet.
var ErrInvalidBase58 = errors.New("cryptoprim: invalid base58 encoding")

// Base58Encode encodes b using the Bitcoin base58 alphabet, preserving
// leading zero bytes as leading '1' characters.
func Base58Encode(b []byte) string {
	zeros := 0
	for zeros < len(b) && b[zeros] == 0 {
		zeros++
	}

	num := new(big.Int).SetBytes(b)
	mod := new(big.Int)
	var out []byte
	for num.Sign() > 0 {
		num.DivMod(num, base58Base, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}
	for i := 0; i < zeros; i++ {
		out = append(out, base58Alphabet[0])
	}

	// out was built least-significant-digit-first; reverse it.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// Base58Decode decodes a string produced by Base58Encode. Returns
// ErrInvalidBase58 if s contains a character outside the alphabet.
func Base58Decode(s string) ([]byte, error) {
	num := new(big.Int)
	for _, c := range s {
		if c > 255 || base58AlphabetIdx[c] < 0 {
			return nil, ErrInvalidBase58
		}
		num.Mul(num, base58Base)
		num.Add(num, big.NewInt(int64(base58AlphabetIdx[c])))
	}

	decoded := num.Bytes()

	zeros := 0
	for zeros < len(s) && s[zeros] == base58Alphabet[0] {
		zeros++
	}

	out := make([]byte, zeros+len(decoded))
	copy(out[zeros:], decoded)
	return out, nil
}
