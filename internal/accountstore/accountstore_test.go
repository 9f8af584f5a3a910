// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package accountstore

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultwire/walletcore/internal/walleterr"
)

func TestCreateFindDelete(t *testing.T) {
	s := New(t.TempDir())

	canonical, _, err := s.Find("Alice ")
	require.NoError(t, err)
	require.Equal(t, "alice", canonical)

	_, exists, err := s.Find("Alice")
	require.NoError(t, err)
	require.False(t, exists)

	canonical, err = s.Create("Alice ")
	require.NoError(t, err)
	require.Equal(t, "alice", canonical)

	_, exists, err = s.Find("alice")
	require.NoError(t, err)
	require.True(t, exists)

	_, err = s.Create("alice")
	require.Error(t, err)
	require.True(t, walleterr.Is(err, walleterr.AccountAlreadyExists))

	require.NoError(t, s.Delete("alice"))
	_, exists, err = s.Find("alice")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestCreate_SpacesBecomeUnderscoresOnDisk(t *testing.T) {
	s := New(t.TempDir())
	canonical, err := s.Create("john doe")
	require.NoError(t, err)
	require.Equal(t, "john doe", canonical)
	require.DirExists(t, s.AccountDir("john doe"))
	require.Contains(t, s.AccountDir("john doe"), "john_doe")
}

func TestWriteReadPackages_RoundTrip(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Create("alice")
	require.NoError(t, err)

	care := []byte(`{"SNRP2":{}}`)
	login := []byte(`{"EMK":{}}`)
	require.NoError(t, s.WritePackages("alice", care, login))

	gotCare, gotLogin, err := s.ReadPackages("alice")
	require.NoError(t, err)
	require.Equal(t, care, gotCare)
	require.Equal(t, login, gotLogin)
}

func TestReadPackages_MissingAccountIsAccountDoesNotExist(t *testing.T) {
	s := New(t.TempDir())
	_, _, err := s.ReadPackages("ghost")
	require.Error(t, err)
	require.True(t, walleterr.Is(err, walleterr.AccountDoesNotExist))
}

func TestOtpKey_WriteReadDelete(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Create("alice")
	require.NoError(t, err)

	_, ok, err := s.ReadOtpKey("alice")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.WriteOtpKey("alice", []byte(`{"TOTP":"ABC"}`)))

	raw, ok, err := s.ReadOtpKey("alice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte(`{"TOTP":"ABC"}`), raw)

	require.NoError(t, s.DeleteOtpKey("alice"))
	_, ok, err = s.ReadOtpKey("alice")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSyncFile_WriteRead(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Create("alice")
	require.NoError(t, err)

	require.NoError(t, s.WriteSyncFile("alice", "Settings.json", []byte("{}")))
	raw, ok, err := s.ReadSyncFile("alice", "Settings.json")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("{}"), raw)

	_, ok, err = s.ReadSyncFile("alice", "ELP2.json")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestList_ReturnsDirectoryNames(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Create("alice")
	require.NoError(t, err)
	_, err = s.Create("bob")
	require.NoError(t, err)

	names, err := s.List()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alice", "bob"}, names)
}

func TestFind_RejectsBadUsername(t *testing.T) {
	s := New(t.TempDir())
	_, _, err := s.Find("héllo")
	require.Error(t, err)
	require.True(t, walleterr.Is(err, walleterr.BadUsername))
}
