// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cryptoprim implements the leaf cryptographic operations the rest
// of walletcore composes: SHA-256, HMAC-SHA256, AES-256-CBC with PKCS#7
// padding, scrypt, cryptographically secure random bytes, and the base16 /
// base58 / base64 / base32(TOTP) codecs.
//
// Nothing in this package knows about accounts, sessions, or on-disk
// formats — it is pure bytes-in, bytes-out, so that every higher package
// composes it instead of reaching for the standard library directly.
package cryptoprim

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	// AESKeySize is the key size, in bytes, for AES-256.
	AESKeySize = 32
	// AESIVSize is the CBC initialization-vector size, in bytes.
	AESIVSize = 16
	// AESBlockSize is the AES block size, in bytes.
	AESBlockSize = aes.BlockSize
	// HMACSize is the output size, in bytes, of HMAC-SHA256.
	HMACSize = sha256.Size
	// ScryptKeyLen is the derived key length scrypt is asked to produce.
	ScryptKeyLen = 32
)

// RandomBytes returns n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return nil, fmt.Errorf("cryptoprim: random bytes: %w", err)
	}
	return buf, nil
}

// SHA256 returns the SHA-256 digest of msg.
func SHA256(msg []byte) []byte {
	sum := sha256.Sum256(msg)
	return sum[:]
}

// HMACSHA256 returns the HMAC-SHA256 authenticator of msg under key.
func HMACSHA256(msg, key []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}

// Scrypt derives a ScryptKeyLen-byte key from data using salt and the cost
// parameters n, r, p. n must be a power of two greater than 1.
func Scrypt(data, salt []byte, n, r, p int) ([]byte, error) {
	key, err := scrypt.Key(data, salt, n, r, p, ScryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("cryptoprim: scrypt: %w", err)
	}
	return key, nil
}

// pkcs7Pad pads data to a multiple of blockSize using PKCS#7.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padding := make([]byte, padLen)
	for i := range padding {
		padding[i] = byte(padLen)
	}
	return append(data, padding...)
}

// pkcs7Unpad removes PKCS#7 padding from data. Returns ErrDecryptFailure if
// the padding is malformed.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 || n%blockSize != 0 {
		return nil, ErrDecryptFailure
	}
	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
		return nil, ErrDecryptFailure
	}
	for _, b := range data[n-padLen:] {
		if int(b) != padLen {
			return nil, ErrDecryptFailure
		}
	}
	return data[:n-padLen], nil
}

// AESEncrypt encrypts plaintext under key (must be AESKeySize bytes) using
// AES-256-CBC with PKCS#7 padding and a fresh random IV. Returns the
// ciphertext and the IV used.
func AESEncrypt(plaintext, key []byte) (ciphertext, iv []byte, err error) {
	if len(key) != AESKeySize {
		return nil, nil, fmt.Errorf("cryptoprim: aes key must be %d bytes", AESKeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("cryptoprim: new cipher: %w", err)
	}

	iv, err = RandomBytes(AESIVSize)
	if err != nil {
		return nil, nil, err
	}

	padded := pkcs7Pad(plaintext, AESBlockSize)
	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, iv, nil
}

// AESDecrypt decrypts ciphertext under key and iv, produced by AESEncrypt.
// Returns ErrDecryptFailure if the padding is invalid or the inputs are
// malformed.
func AESDecrypt(ciphertext, iv, key []byte) ([]byte, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("cryptoprim: aes key must be %d bytes", AESKeySize)
	}
	if len(iv) != AESIVSize {
		return nil, ErrDecryptFailure
	}
	if len(ciphertext) == 0 || len(ciphertext)%AESBlockSize != 0 {
		return nil, ErrDecryptFailure
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptoprim: new cipher: %w", err)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	return pkcs7Unpad(padded, AESBlockSize)
}
