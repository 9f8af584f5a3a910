// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package packages implements CarePackage, LoginPackage, and the TOTP key
// sidecar file, together with the Package I/O discipline: stable key order
// on write, lenient-order/strict-presence on read, and an explicit choice
// per writer of whether unknown top-level fields survive a round trip.
package packages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/vaultwire/walletcore/internal/cryptoprim"
	"github.com/vaultwire/walletcore/internal/envelope"
	"github.com/vaultwire/walletcore/internal/snrp"
)

// ErrMissingField is returned when a required top-level field is absent.
var ErrMissingField = errors.New("packages: missing required field")

type orderedField struct {
	key       string
	value     any
	omitIfNil bool
}

func isNilValue(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

// marshalOrdered writes fields in the given order, then any preserved
// unknown fields sorted by key for determinism, matching the diff-friendly
// stable-key-order requirement for package writes.
func marshalOrdered(fields []orderedField, unknown map[string]json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true

	writeKey := func(key string) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		raw, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(raw)
		buf.WriteByte(':')
		return nil
	}

	for _, f := range fields {
		if f.omitIfNil && isNilValue(f.value) {
			continue
		}
		raw, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("packages: marshal field %q: %w", f.key, err)
		}
		if err := writeKey(f.key); err != nil {
			return nil, err
		}
		buf.Write(raw)
	}

	keys := make([]string, 0, len(unknown))
	for k := range unknown {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeKey(k); err != nil {
			return nil, err
		}
		buf.Write(unknown[k])
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// splitKnown unmarshals raw into a field map, then extracts and deletes the
// named known keys, returning their raw values (nil if absent) and the
// remaining map as the unknown-field set.
func splitKnown(raw []byte, knownKeys ...string) (known map[string]json.RawMessage, unknown map[string]json.RawMessage, err error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, nil, fmt.Errorf("packages: unmarshal: %w", err)
	}
	known = make(map[string]json.RawMessage, len(knownKeys))
	for _, k := range knownKeys {
		if v, ok := all[k]; ok {
			known[k] = v
			delete(all, k)
		}
	}
	return known, all, nil
}

// CarePackage holds the three client SnrpProfiles and, once recovery has
// been set up, the encrypted recovery-questions envelope.
type CarePackage struct {
	SNRP2 snrp.Profile
	SNRP3 snrp.Profile
	SNRP4 snrp.Profile
	ERQ   *envelope.Envelope

	unknown map[string]json.RawMessage
}

// NewCarePackage builds a fresh Care Package with no recovery set.
func NewCarePackage(s2, s3, s4 snrp.Profile) CarePackage {
	return CarePackage{SNRP2: s2, SNRP3: s3, SNRP4: s4}
}

func (c CarePackage) fields() []orderedField {
	return []orderedField{
		{key: "SNRP2", value: c.SNRP2},
		{key: "SNRP3", value: c.SNRP3},
		{key: "SNRP4", value: c.SNRP4},
		{key: "ERQ", value: c.ERQ, omitIfNil: true},
	}
}

// MarshalCreate renders a full rewrite: stable key order, unknown fields
// discarded. Used by account creation.
func (c CarePackage) MarshalCreate() ([]byte, error) {
	return marshalOrdered(c.fields(), nil)
}

// MarshalEdit renders an edit write: stable key order, with any unknown
// top-level fields carried over from the package this value was parsed
// from. Used by set-recovery.
func (c CarePackage) MarshalEdit() ([]byte, error) {
	return marshalOrdered(c.fields(), c.unknown)
}

// ParseCarePackage parses raw JSON, requiring SNRP2/3/4 to be present.
// Unknown top-level fields are captured so a subsequent MarshalEdit
// preserves them.
func ParseCarePackage(raw []byte) (CarePackage, error) {
	known, unknown, err := splitKnown(raw, "SNRP2", "SNRP3", "SNRP4", "ERQ")
	if err != nil {
		return CarePackage{}, err
	}

	var c CarePackage
	for _, req := range []string{"SNRP2", "SNRP3", "SNRP4"} {
		v, ok := known[req]
		if !ok {
			return CarePackage{}, fmt.Errorf("%w: %s", ErrMissingField, req)
		}
		var p snrp.Profile
		if err := json.Unmarshal(v, &p); err != nil {
			return CarePackage{}, fmt.Errorf("packages: parse %s: %w", req, err)
		}
		switch req {
		case "SNRP2":
			c.SNRP2 = p
		case "SNRP3":
			c.SNRP3 = p
		case "SNRP4":
			c.SNRP4 = p
		}
	}

	if v, ok := known["ERQ"]; ok {
		var e envelope.Envelope
		if err := json.Unmarshal(v, &e); err != nil {
			return CarePackage{}, fmt.Errorf("packages: parse ERQ: %w", err)
		}
		c.ERQ = &e
	}

	c.unknown = unknown
	return c, nil
}

// LoginPackage holds the encrypted master key and the encrypted sync-repo
// key token.
type LoginPackage struct {
	EMK      envelope.Envelope
	ESyncKey envelope.Envelope

	unknown map[string]json.RawMessage
}

// NewLoginPackage builds a fresh Login Package from already-sealed
// envelopes.
func NewLoginPackage(emk, esyncKey envelope.Envelope) LoginPackage {
	return LoginPackage{EMK: emk, ESyncKey: esyncKey}
}

func (l LoginPackage) fields() []orderedField {
	return []orderedField{
		{key: "EMK", value: l.EMK},
		{key: "ESyncKey", value: l.ESyncKey},
	}
}

// MarshalCreate renders a full rewrite: stable key order, unknown fields
// discarded. Used by account creation and change-password.
func (l LoginPackage) MarshalCreate() ([]byte, error) {
	return marshalOrdered(l.fields(), nil)
}

// MarshalEdit renders an edit write preserving unknown fields.
func (l LoginPackage) MarshalEdit() ([]byte, error) {
	return marshalOrdered(l.fields(), l.unknown)
}

// ParseLoginPackage parses raw JSON, requiring EMK and ESyncKey.
func ParseLoginPackage(raw []byte) (LoginPackage, error) {
	known, unknown, err := splitKnown(raw, "EMK", "ESyncKey")
	if err != nil {
		return LoginPackage{}, err
	}

	var l LoginPackage
	for _, req := range []string{"EMK", "ESyncKey"} {
		v, ok := known[req]
		if !ok {
			return LoginPackage{}, fmt.Errorf("%w: %s", ErrMissingField, req)
		}
		var e envelope.Envelope
		if err := json.Unmarshal(v, &e); err != nil {
			return LoginPackage{}, fmt.Errorf("packages: parse %s: %w", req, err)
		}
		switch req {
		case "EMK":
			l.EMK = e
		case "ESyncKey":
			l.ESyncKey = e
		}
	}

	l.unknown = unknown
	return l, nil
}

// OtpKeyFile is the shape of OtpKey.json: a base32-encoded TOTP seed.
type OtpKeyFile struct {
	TOTP string `json:"TOTP"`
}

// NewOtpKeyFile base32-encodes key into the OtpKey.json shape.
func NewOtpKeyFile(key []byte) OtpKeyFile {
	return OtpKeyFile{TOTP: cryptoprim.Base32Encode(key)}
}

// Key decodes the stored base32 TOTP seed back to raw bytes.
func (f OtpKeyFile) Key() ([]byte, error) {
	key, err := cryptoprim.Base32Decode(f.TOTP)
	if err != nil {
		return nil, fmt.Errorf("packages: decode OtpKey: %w", err)
	}
	return key, nil
}

// Marshal renders OtpKey.json.
func (f OtpKeyFile) Marshal() ([]byte, error) {
	return json.Marshal(f)
}

// ParseOtpKeyFile parses OtpKey.json.
func ParseOtpKeyFile(raw []byte) (OtpKeyFile, error) {
	var f OtpKeyFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return OtpKeyFile{}, fmt.Errorf("packages: parse OtpKey.json: %w", err)
	}
	if f.TOTP == "" {
		return OtpKeyFile{}, fmt.Errorf("%w: TOTP", ErrMissingField)
	}
	return f, nil
}
