// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cryptoprim

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // RFC 6238 / authenticator-app compatibility requires SHA-1, not a security-relevant choice here.
	"encoding/binary"
	"fmt"
	"time"
)

const (
	totpStep   = 30 * time.Second
	totpDigits = 6
)

// TOTP computes the RFC 6238 time-based one-time password for key at time t,
// using the standard 30-second step and 6-digit truncation that
// authenticator apps and OtpKey.json both assume.
func TOTP(key []byte, t time.Time) string {
	counter := uint64(t.Unix() / int64(totpStep.Seconds()))

	var counterBytes [8]byte
	binary.BigEndian.PutUint64(counterBytes[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(counterBytes[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	truncated := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	mod := uint32(1)
	for i := 0; i < totpDigits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", totpDigits, truncated%mod)
}
