// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cryptoprim

import "errors"

// ErrDecryptFailure is returned whenever an authenticated-decryption step
// fails: PKCS#7 padding is malformed, or the prepended HMAC tag does not
// match. Callers must not distinguish the two causes — doing so would leak a
// padding oracle.
var ErrDecryptFailure = errors.New("cryptoprim: decrypt failure")
