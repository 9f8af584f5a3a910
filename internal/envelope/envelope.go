// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package envelope implements EncryptedJsonEnvelope, the sole at-rest format
// for sensitive values in walletcore: a tagged JSON record wrapping any JSON
// payload under a single key, authenticated with a MAC-then-encrypt
// composition so that tampering is detected before the plaintext is ever
// returned to the caller.
package envelope

import (
	"crypto/hmac"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/vaultwire/walletcore/internal/cryptoprim"
)

// TypeCode identifies the algorithm an Envelope was sealed with.
type TypeCode int

// TypeAES256CBCHMAC is the only TypeCode walletcore currently produces:
// AES-256-CBC for confidentiality, HMAC-SHA256 (MAC-then-encrypt, with the
// tag length-prefixed ahead of the plaintext) for integrity.
const TypeAES256CBCHMAC TypeCode = 0

// Envelope is the on-disk/on-wire shape of EncryptedJsonEnvelope.
//
//	{ "data_base64": "...", "iv_hex": "...", "type": 0 }
type Envelope struct {
	DataBase64 string   `json:"data_base64"`
	IVHex      string   `json:"iv_hex"`
	Type       TypeCode `json:"type"`
}

const macKeyLabel = "walletcore-envelope-mac"
const encKeyLabel = "walletcore-envelope-enc"

// subKeys derives domain-separated MAC and encryption keys from the single
// envelope key via HMAC-SHA256 labelling, so that the same derived key never
// keys both AES-CBC and HMAC directly.
func subKeys(key []byte) (macKey, encKey []byte) {
	return cryptoprim.HMACSHA256([]byte(macKeyLabel), key), cryptoprim.HMACSHA256([]byte(encKeyLabel), key)
}

// Encrypt seals payload (already-serialized JSON bytes) under key, producing
// an Envelope whose DataBase64 embeds the IV and ciphertext and whose IVHex
// mirrors the IV for convenience.
func Encrypt(payload, key []byte) (Envelope, error) {
	macKey, encKey := subKeys(key)

	tag := cryptoprim.HMACSHA256(payload, macKey)

	var lenPrefix [4]byte
	binary.BigEndian.PutUint32(lenPrefix[:], uint32(len(tag)))

	prefixed := make([]byte, 0, len(lenPrefix)+len(tag)+len(payload))
	prefixed = append(prefixed, lenPrefix[:]...)
	prefixed = append(prefixed, tag...)
	prefixed = append(prefixed, payload...)

	ciphertext, iv, err := cryptoprim.AESEncrypt(prefixed, encKey)
	if err != nil {
		return Envelope{}, fmt.Errorf("envelope: encrypt: %w", err)
	}

	data := make([]byte, 0, len(iv)+len(ciphertext))
	data = append(data, iv...)
	data = append(data, ciphertext...)

	return Envelope{
		DataBase64: cryptoprim.Base64Encode(data),
		IVHex:      cryptoprim.Base16Encode(iv),
		Type:       TypeAES256CBCHMAC,
	}, nil
}

// Decrypt opens env under key, returning the original payload bytes passed
// to Encrypt. Returns cryptoprim.ErrDecryptFailure for any MAC mismatch,
// padding failure, or unrecognized Type.
func Decrypt(env Envelope, key []byte) ([]byte, error) {
	if env.Type != TypeAES256CBCHMAC {
		return nil, cryptoprim.ErrDecryptFailure
	}

	raw, err := cryptoprim.Base64Decode(env.DataBase64)
	if err != nil || len(raw) <= cryptoprim.AESIVSize {
		return nil, cryptoprim.ErrDecryptFailure
	}

	iv := raw[:cryptoprim.AESIVSize]
	ciphertext := raw[cryptoprim.AESIVSize:]

	macKey, encKey := subKeys(key)

	padded, err := cryptoprim.AESDecrypt(ciphertext, iv, encKey)
	if err != nil {
		return nil, cryptoprim.ErrDecryptFailure
	}
	if len(padded) < 4 {
		return nil, cryptoprim.ErrDecryptFailure
	}

	tagLen := binary.BigEndian.Uint32(padded[:4])
	if uint64(tagLen) != uint64(cryptoprim.HMACSize) || len(padded) < 4+int(tagLen) {
		return nil, cryptoprim.ErrDecryptFailure
	}

	tag := padded[4 : 4+tagLen]
	payload := padded[4+tagLen:]

	if !hmac.Equal(tag, cryptoprim.HMACSHA256(payload, macKey)) {
		return nil, cryptoprim.ErrDecryptFailure
	}

	return payload, nil
}

// EncryptJSON marshals v to JSON and seals it under key.
func EncryptJSON(v any, key []byte) (Envelope, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("envelope: marshal payload: %w", err)
	}
	return Encrypt(payload, key)
}

// DecryptJSON opens env under key and unmarshals the resulting JSON into
// target, which must be a non-nil pointer as required by json.Unmarshal.
func DecryptJSON(env Envelope, key []byte, target any) error {
	payload, err := Decrypt(env, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, target); err != nil {
		return fmt.Errorf("envelope: unmarshal payload: %w", err)
	}
	return nil
}
