// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package packages

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultwire/walletcore/internal/cryptoprim"
	"github.com/vaultwire/walletcore/internal/envelope"
	"github.com/vaultwire/walletcore/internal/snrp"
)

func testProfiles(t *testing.T) (s2, s3, s4 snrp.Profile) {
	t.Helper()
	var err error
	s2, err = snrp.NewClientProfile()
	require.NoError(t, err)
	s3, err = snrp.NewClientProfile()
	require.NoError(t, err)
	s4, err = snrp.NewClientProfile()
	require.NoError(t, err)
	return
}

func TestCarePackage_MarshalCreate_KeyOrder(t *testing.T) {
	s2, s3, s4 := testProfiles(t)
	care := NewCarePackage(s2, s3, s4)

	raw, err := care.MarshalCreate()
	require.NoError(t, err)
	require.Regexp(t, `^\{"SNRP2":.*"SNRP3":.*"SNRP4":.*\}$`, string(raw))
}

func TestCarePackage_RoundTrip(t *testing.T) {
	s2, s3, s4 := testProfiles(t)
	care := NewCarePackage(s2, s3, s4)

	raw, err := care.MarshalCreate()
	require.NoError(t, err)

	got, err := ParseCarePackage(raw)
	require.NoError(t, err)
	require.Equal(t, care.SNRP2, got.SNRP2)
	require.Equal(t, care.SNRP3, got.SNRP3)
	require.Equal(t, care.SNRP4, got.SNRP4)
	require.Nil(t, got.ERQ)
}

func TestCarePackage_MissingFieldRejected(t *testing.T) {
	_, err := ParseCarePackage([]byte(`{"SNRP2":{},"SNRP3":{}}`))
	require.ErrorIs(t, err, ErrMissingField)
}

func TestCarePackage_EditPreservesUnknownFields(t *testing.T) {
	s2, s3, s4 := testProfiles(t)
	care := NewCarePackage(s2, s3, s4)
	raw, err := care.MarshalCreate()
	require.NoError(t, err)

	var asMap map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &asMap))
	asMap["futureField"] = json.RawMessage(`"keep-me"`)
	withExtra, err := json.Marshal(asMap)
	require.NoError(t, err)

	parsed, err := ParseCarePackage(withExtra)
	require.NoError(t, err)

	key, err := cryptoprim.RandomBytes(32)
	require.NoError(t, err)
	env, err := envelope.Encrypt([]byte("recovery questions"), key)
	require.NoError(t, err)
	parsed.ERQ = &env

	edited, err := parsed.MarshalEdit()
	require.NoError(t, err)
	require.Contains(t, string(edited), `"futureField":"keep-me"`)

	reparsed, err := ParseCarePackage(edited)
	require.NoError(t, err)
	require.NotNil(t, reparsed.ERQ)
}

func TestCarePackage_CreateDiscardsUnknownFields(t *testing.T) {
	s2, s3, s4 := testProfiles(t)
	care := NewCarePackage(s2, s3, s4)
	raw, err := care.MarshalCreate()
	require.NoError(t, err)

	var asMap map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &asMap))
	asMap["futureField"] = json.RawMessage(`"drop-me"`)
	withExtra, err := json.Marshal(asMap)
	require.NoError(t, err)

	parsed, err := ParseCarePackage(withExtra)
	require.NoError(t, err)

	rewritten, err := parsed.MarshalCreate()
	require.NoError(t, err)
	require.NotContains(t, string(rewritten), "futureField")
}

func TestLoginPackage_RoundTrip(t *testing.T) {
	key, err := cryptoprim.RandomBytes(32)
	require.NoError(t, err)

	emk, err := envelope.Encrypt([]byte("master-key-bytes"), key)
	require.NoError(t, err)
	esk, err := envelope.Encrypt([]byte("sync-key-hex"), key)
	require.NoError(t, err)

	login := NewLoginPackage(emk, esk)
	raw, err := login.MarshalCreate()
	require.NoError(t, err)
	require.Regexp(t, `^\{"EMK":.*"ESyncKey":.*\}$`, string(raw))

	got, err := ParseLoginPackage(raw)
	require.NoError(t, err)
	require.Equal(t, login.EMK, got.EMK)
	require.Equal(t, login.ESyncKey, got.ESyncKey)
}

func TestLoginPackage_MissingFieldRejected(t *testing.T) {
	_, err := ParseLoginPackage([]byte(`{"EMK":{}}`))
	require.ErrorIs(t, err, ErrMissingField)
}

func TestOtpKeyFile_RoundTrip(t *testing.T) {
	key, err := cryptoprim.RandomBytes(20)
	require.NoError(t, err)

	f := NewOtpKeyFile(key)
	raw, err := f.Marshal()
	require.NoError(t, err)

	parsed, err := ParseOtpKeyFile(raw)
	require.NoError(t, err)

	got, err := parsed.Key()
	require.NoError(t, err)
	require.Equal(t, key, got)
}

func TestOtpKeyFile_MissingTOTPRejected(t *testing.T) {
	_, err := ParseOtpKeyFile([]byte(`{}`))
	require.ErrorIs(t, err, ErrMissingField)
}
