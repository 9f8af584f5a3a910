// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultwire/walletcore/internal/seckey"
	"github.com/vaultwire/walletcore/internal/snrp"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()

	mk, err := seckey.NewMK([]byte("0123456789abcdef0123456789abcdef"[:32]))
	require.NoError(t, err)
	l1, err := seckey.NewL1([]byte("l1-bytes"))
	require.NoError(t, err)
	p1, err := seckey.NewP1([]byte("p1-bytes"))
	require.NoError(t, err)
	l2, err := seckey.NewL2([]byte("l2-bytes"))
	require.NoError(t, err)
	lp2, err := seckey.NewLP2([]byte("lp2-bytes"))
	require.NoError(t, err)
	sk, err := seckey.NewSyncKey([]byte("01234567890123456789"[:20]))
	require.NoError(t, err)

	s1 := snrp.ServerProfile()
	s2, err := snrp.NewClientProfile()
	require.NoError(t, err)
	s3, err := snrp.NewClientProfile()
	require.NoError(t, err)
	s4, err := snrp.NewClientProfile()
	require.NoError(t, err)

	return New(Params{
		Username:   "alice",
		AccountDir: "/tmp/accounts/alice",
		S1:         s1, S2: s2, S3: s3, S4: s4,
		L1: l1, P1: p1, L2: l2, LP2: lp2, MK: mk, SyncKey: sk,
	})
}

func TestSession_AccessorsBeforeLogout(t *testing.T) {
	s := newTestSession(t)
	require.Equal(t, "alice", s.Username())
	require.NotEmpty(t, s.DataKey())
	require.NotEmpty(t, s.SyncRepoURL())

	l1, p1 := s.AuthTokens()
	require.Equal(t, []byte("l1-bytes"), l1)
	require.Equal(t, []byte("p1-bytes"), p1)

	_, _, _, ok := s.RecoveryTokens()
	require.False(t, ok)
}

func TestSession_RekeyReplacesCredentials(t *testing.T) {
	s := newTestSession(t)

	newP1, err := seckey.NewP1([]byte("new-p1-bytes"))
	require.NoError(t, err)
	newLP2, err := seckey.NewLP2([]byte("new-lp2-bytes"))
	require.NoError(t, err)

	require.NoError(t, s.Rekey(newP1, newLP2))

	_, p1 := s.AuthTokens()
	require.Equal(t, []byte("new-p1-bytes"), p1)
}

func TestSession_InstallRecovery(t *testing.T) {
	s := newTestSession(t)

	lra, err := seckey.NewLRA([]byte("lra-bytes"))
	require.NoError(t, err)
	lra1, err := seckey.NewLRA1([]byte("lra1-bytes"))
	require.NoError(t, err)
	lra2, err := seckey.NewLRA2([]byte("lra2-bytes"))
	require.NoError(t, err)

	s3, err := snrp.NewClientProfile()
	require.NoError(t, err)

	require.NoError(t, s.InstallRecovery(s3, lra, lra1, lra2))

	_, _, _, ok := s.RecoveryTokens()
	require.True(t, ok)
}

func TestSession_LogoutZeroizesAndIsIdempotent(t *testing.T) {
	s := newTestSession(t)
	s.Logout()
	require.True(t, s.LoggedOut())
	s.Logout() // must not panic

	newP1, err := seckey.NewP1([]byte("x"))
	require.NoError(t, err)
	newLP2, err := seckey.NewLP2([]byte("y"))
	require.NoError(t, err)
	require.Error(t, s.Rekey(newP1, newLP2))
}
