// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package session implements Session: the in-memory, signed-in identity
// that gates every sensitive operation once a user is authenticated. A
// Session is the only object permitted to mutate its own key material —
// callers ask it to rekey or to install recovery keys rather than reaching
// into its fields directly — and it is solely responsible for zeroizing
// that material on logout. Keys derived by a sign-in that fails before a
// Session is built are not destroyed by this package or by its callers.
package session

import (
	"fmt"

	"github.com/vaultwire/walletcore/internal/cryptoprim"
	"github.com/vaultwire/walletcore/internal/seckey"
	"github.com/vaultwire/walletcore/internal/snrp"
)

// Session holds the materialized keys for one signed-in identity.
type Session struct {
	username   string // canonical
	accountDir string

	s1, s2, s3, s4 snrp.Profile

	l1  seckey.L1
	p1  seckey.P1
	l2  seckey.L2
	lp2 seckey.LP2
	mk  seckey.MK
	sk  seckey.SyncKey

	hasRecovery     bool
	recoveryLimited bool
	lra             seckey.LRA
	lra1            seckey.LRA1
	lra2            seckey.LRA2

	loggedOut bool
}

// Params bundles everything needed to construct a Session once the caller
// (LoginOrchestrator) has already verified the password or recovery
// answers decrypt the account's EMK/ELP2.
type Params struct {
	Username   string
	AccountDir string
	S1, S2, S3, S4 snrp.Profile
	L1         seckey.L1
	P1         seckey.P1
	L2         seckey.L2
	LP2        seckey.LP2
	MK         seckey.MK
	SyncKey    seckey.SyncKey
}

// New constructs a signed-in Session. The caller must have already
// established trust (EMK or ELP2 decrypted successfully) before calling
// this — New does not itself verify anything.
func New(p Params) *Session {
	return &Session{
		username:   p.Username,
		accountDir: p.AccountDir,
		s1:         p.S1,
		s2:         p.S2,
		s3:         p.S3,
		s4:         p.S4,
		l1:         p.L1,
		p1:         p.P1,
		l2:         p.L2,
		lp2:        p.LP2,
		mk:         p.MK,
		sk:         p.SyncKey,
	}
}

// NewFromRecovery constructs a Session from a successful recovery sign-in.
// Such a session carries recovery tokens but is recovery-limited: enough to
// change the password, not enough to set a new recovery.
func NewFromRecovery(p Params, lra seckey.LRA, lra1 seckey.LRA1, lra2 seckey.LRA2) *Session {
	s := New(p)
	s.hasRecovery = true
	s.recoveryLimited = true
	s.lra = lra
	s.lra1 = lra1
	s.lra2 = lra2
	return s
}

// RecoveryLimited reports whether this session was constructed via recovery
// sign-in and has not yet completed a change-password. A recovery-limited
// session is not permitted to call SetRecovery.
func (s *Session) RecoveryLimited() bool { return s.recoveryLimited }

// L2Bytes exposes L2, needed to re-seal ESyncKey/ERQ during change-password
// and set-recovery.
func (s *Session) L2Bytes() []byte { return s.l2.Bytes() }

// LP2Bytes exposes LP2, needed to seal ELP2/ELRA2 during set-recovery.
func (s *Session) LP2Bytes() []byte { return s.lp2.Bytes() }

// Username returns the canonical signed-in username.
func (s *Session) Username() string { return s.username }

// AccountDir returns the account's on-disk directory.
func (s *Session) AccountDir() string { return s.accountDir }

// Profiles returns the four SnrpProfiles recorded in the account's Care
// Package (S1 is the fixed server profile).
func (s *Session) Profiles() (s1, s2, s3, s4 snrp.Profile) {
	return s.s1, s.s2, s.s3, s.s4
}

// DataKey returns MK, the master key from which per-wallet secrets are
// derived.
func (s *Session) DataKey() []byte {
	return s.mk.Bytes()
}

// SyncRepoURL returns the hex-encoded path token identifying this
// account's personal sync repo. Resolving that token to an actual
// transport endpoint is delegated to the sync capability.
func (s *Session) SyncRepoURL() string {
	return cryptoprim.Base16Encode(s.sk.Bytes())
}

// AuthTokens returns (L1, P1), the credentials used to authenticate
// further ServerClient calls for this session.
func (s *Session) AuthTokens() (l1, p1 []byte) {
	return s.l1.Bytes(), s.p1.Bytes()
}

// RecoveryTokens returns (LRA, LRA1, LRA2) if recovery has been set up for
// this session (either because SetRecovery installed them, or because the
// session was constructed via recovery sign-in). The second return value
// reports whether recovery material is present.
func (s *Session) RecoveryTokens() (lra seckey.LRA, lra1 seckey.LRA1, lra2 seckey.LRA2, ok bool) {
	return s.lra, s.lra1, s.lra2, s.hasRecovery
}

// Rekey replaces P1 and LP2 with freshly derived values and destroys the
// previous ones. Called by the orchestrator only after the server has
// acknowledged a changePassword request, never before.
func (s *Session) Rekey(newP1 seckey.P1, newLP2 seckey.LP2) error {
	if s.loggedOut {
		return fmt.Errorf("session: rekey after logout")
	}
	s.p1.Destroy()
	s.lp2.Destroy()
	s.p1 = newP1
	s.lp2 = newLP2
	s.recoveryLimited = false
	return nil
}

// InstallRecovery records fresh recovery key material and the new S3
// profile, destroying any previous recovery keys. Called by the
// orchestrator only after the server has acknowledged a setRecovery
// request.
func (s *Session) InstallRecovery(s3 snrp.Profile, lra seckey.LRA, lra1 seckey.LRA1, lra2 seckey.LRA2) error {
	if s.loggedOut {
		return fmt.Errorf("session: install recovery after logout")
	}
	if s.hasRecovery {
		s.lra.Destroy()
		s.lra1.Destroy()
		s.lra2.Destroy()
	}
	s.s3 = s3
	s.lra = lra
	s.lra1 = lra1
	s.lra2 = lra2
	s.hasRecovery = true
	return nil
}

// Logout zeroizes every key held by the session. Safe to call more than
// once. After Logout the key buffers are destroyed, LoggedOut reports true
// and Rekey and InstallRecovery fail; Username, AccountDir and Profiles keep
// their values.
func (s *Session) Logout() {
	if s.loggedOut {
		return
	}
	s.l1.Destroy()
	s.p1.Destroy()
	s.l2.Destroy()
	s.lp2.Destroy()
	s.mk.Destroy()
	s.sk.Destroy()
	if s.hasRecovery {
		s.lra.Destroy()
		s.lra1.Destroy()
		s.lra2.Destroy()
	}
	s.loggedOut = true
}

// LoggedOut reports whether Logout has already run.
func (s *Session) LoggedOut() bool {
	return s.loggedOut
}
