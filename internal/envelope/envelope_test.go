// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package envelope

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultwire/walletcore/internal/cryptoprim"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key, err := cryptoprim.RandomBytes(32)
	require.NoError(t, err)

	payload := []byte(`{"hello":"world"}`)

	env, err := Encrypt(payload, key)
	require.NoError(t, err)
	require.Equal(t, TypeAES256CBCHMAC, env.Type)

	got, err := Decrypt(env, key)
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestDecrypt_WrongKeyFails(t *testing.T) {
	key, _ := cryptoprim.RandomBytes(32)
	other, _ := cryptoprim.RandomBytes(32)

	env, err := Encrypt([]byte("top secret"), key)
	require.NoError(t, err)

	_, err = Decrypt(env, other)
	require.ErrorIs(t, err, cryptoprim.ErrDecryptFailure)
}

func TestDecrypt_UnrecognizedTypeFails(t *testing.T) {
	key, _ := cryptoprim.RandomBytes(32)
	env, err := Encrypt([]byte("data"), key)
	require.NoError(t, err)

	env.Type = TypeCode(99)

	_, err = Decrypt(env, key)
	require.ErrorIs(t, err, cryptoprim.ErrDecryptFailure)
}

func TestDecrypt_TamperedDataFails(t *testing.T) {
	key, _ := cryptoprim.RandomBytes(32)
	env, err := Encrypt([]byte("data"), key)
	require.NoError(t, err)

	raw, err := cryptoprim.Base64Decode(env.DataBase64)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xFF
	env.DataBase64 = cryptoprim.Base64Encode(raw)

	_, err = Decrypt(env, key)
	require.True(t, errors.Is(err, cryptoprim.ErrDecryptFailure))
}

func TestJSON_FieldShape(t *testing.T) {
	key, _ := cryptoprim.RandomBytes(32)
	env, err := Encrypt([]byte("x"), key)
	require.NoError(t, err)

	raw, err := json.Marshal(env)
	require.NoError(t, err)

	var asMap map[string]any
	require.NoError(t, json.Unmarshal(raw, &asMap))
	require.Contains(t, asMap, "data_base64")
	require.Contains(t, asMap, "iv_hex")
	require.Contains(t, asMap, "type")
}

func TestEncryptDecryptJSON_RoundTrip(t *testing.T) {
	key, _ := cryptoprim.RandomBytes(32)

	type payload struct {
		Foo string `json:"foo"`
		Bar int    `json:"bar"`
	}
	want := payload{Foo: "baz", Bar: 42}

	env, err := EncryptJSON(want, key)
	require.NoError(t, err)

	var got payload
	require.NoError(t, DecryptJSON(env, key, &got))
	require.Equal(t, want, got)
}
