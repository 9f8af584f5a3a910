// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package orchestrator implements LoginOrchestrator: the state machine that
// composes AccountStore, ServerClient, KeyDerivation, and Session into the
// create / sign-in / change-password / set-recovery / recover operations.
// Every exported method here is the single entry point its operation has;
// nothing outside this package talks to ServerClient directly.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vaultwire/walletcore/internal/accountstore"
	"github.com/vaultwire/walletcore/internal/cryptoprim"
	"github.com/vaultwire/walletcore/internal/derive"
	"github.com/vaultwire/walletcore/internal/envelope"
	"github.com/vaultwire/walletcore/internal/logger"
	"github.com/vaultwire/walletcore/internal/packages"
	"github.com/vaultwire/walletcore/internal/seckey"
	"github.com/vaultwire/walletcore/internal/serverclient"
	"github.com/vaultwire/walletcore/internal/session"
	"github.com/vaultwire/walletcore/internal/snrp"
	"github.com/vaultwire/walletcore/internal/walleterr"
)

const (
	elp2File  = "ELP2.json"
	elra2File = "ELRA2.json"
)

// Orchestrator ties together account storage and the account server to
// execute the login/identity state machine.
type Orchestrator struct {
	store  *accountstore.Store
	server serverclient.Transport
	now    func() time.Time

	// RekeyWallets, when set, is invoked during ChangePassword after the
	// server has acknowledged the new credentials but before the session is
	// rekeyed: the wallet subsystem re-encrypts its per-wallet keys from
	// oldLP2 to newLP2. Both slices are zeroized by the session afterward,
	// so the callback must not retain them.
	RekeyWallets func(oldLP2, newLP2 []byte) error
}

// New constructs an Orchestrator over store and server. server is typically
// a *serverclient.Client in production and a hand-authored internal/mock
// double in tests.
func New(store *accountstore.Store, server serverclient.Transport) *Orchestrator {
	return &Orchestrator{store: store, server: server, now: time.Now}
}

// remapRecoveryAuth turns a BadPassword classification into BadRecoveryAnswers
// when the failing call authenticated with LRA1 rather than P1.
func remapRecoveryAuth(op string, err error) error {
	if err == nil {
		return nil
	}
	if walleterr.Is(err, walleterr.BadPassword) {
		return walleterr.New(op, walleterr.BadRecoveryAnswers, err)
	}
	return err
}

// Create runs account creation: generates all SnrpProfiles, MK, and
// SyncKey, builds and uploads the Care and Login Packages in one request,
// and on success writes them locally and returns a signed-in Session.
func (o *Orchestrator) Create(ctx context.Context, username, password string) (*session.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug().Str("op", "create").Msg("orchestrator op start")

	canonical, err := o.store.Create(username)
	if err != nil {
		log.Err(err).Str("op", "create").Msg("orchestrator op failed")
		return nil, err
	}
	createdFresh := true

	abort := func(cause error) (*session.Session, error) {
		if createdFresh {
			_ = o.store.Delete(canonical)
		}
		return nil, cause
	}

	s1 := snrp.ServerProfile()
	s2, err := snrp.NewClientProfile()
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}
	s3, err := snrp.NewClientProfile()
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}
	s4, err := snrp.NewClientProfile()
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}

	mk, err := derive.NewMK()
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}
	syncKey, err := derive.NewSyncKey()
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}

	l1, err := derive.DeriveL1(canonical, s1)
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}
	p1, err := derive.DeriveP1(password, s1)
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}
	l2, err := derive.DeriveL2(canonical, s4)
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}
	lp2, err := derive.DeriveLP2(canonical, password, s2)
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}

	emk, err := envelope.Encrypt(mk.Bytes(), lp2.Bytes())
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}
	esyncKey, err := envelope.Encrypt([]byte(cryptoprim.Base16Encode(syncKey.Bytes())), l2.Bytes())
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}

	care := packages.NewCarePackage(s2, s3, s4)
	login := packages.NewLoginPackage(emk, esyncKey)

	careJSON, err := care.MarshalCreate()
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}
	loginJSON, err := login.MarshalCreate()
	if err != nil {
		return abort(walleterr.New("create", walleterr.Storage, err))
	}

	if err := o.server.Create(ctx, l1.Bytes(), p1.Bytes(), careJSON, loginJSON, syncKey.Bytes()); err != nil {
		return abort(err)
	}

	// Server has ACKed; from here local-write failures do not roll back —
	// a later sign-in repopulates from the server.
	if err := o.store.WritePackages(canonical, careJSON, loginJSON); err != nil {
		return nil, err
	}

	return session.New(session.Params{
		Username: canonical, AccountDir: o.store.AccountDir(canonical),
		S1: s1, S2: s2, S3: s3, S4: s4,
		L1: l1, P1: p1, L2: l2, LP2: lp2, MK: mk, SyncKey: syncKey,
	}), nil
}

// SignIn authenticates username/password, fetching packages from the
// server if no local copy exists, handling an OTP challenge by reading the
// local OtpKey.json automatically.
func (o *Orchestrator) SignIn(ctx context.Context, username, password string) (*session.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug().Str("op", "signIn").Msg("orchestrator op start")

	canonical, err := derive.CanonicalizeUsername(username)
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.BadUsername, err)
	}

	s1 := snrp.ServerProfile()
	l1, err := derive.DeriveL1(canonical, s1)
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Storage, err)
	}
	p1, err := derive.DeriveP1(password, s1)
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Storage, err)
	}

	careJSON, loginJSON, err := o.store.ReadPackages(canonical)
	if walleterr.Is(err, walleterr.AccountDoesNotExist) {
		careJSON, loginJSON, err = o.fetchPackages(ctx, canonical, l1, p1, seckey.LRA1{})
		if err != nil {
			return nil, err
		}
		// Best-effort local cache; a failure here does not fail sign-in.
		_ = o.store.WritePackages(canonical, careJSON, loginJSON)
	} else if err != nil {
		return nil, err
	}

	care, err := packages.ParseCarePackage(careJSON)
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Corrupt, err)
	}
	login, err := packages.ParseLoginPackage(loginJSON)
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Corrupt, err)
	}

	l2, err := derive.DeriveL2(canonical, care.SNRP4)
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Storage, err)
	}
	lp2, err := derive.DeriveLP2(canonical, password, care.SNRP2)
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Storage, err)
	}

	mkBytes, err := envelope.Decrypt(login.EMK, lp2.Bytes())
	if err != nil {
		log.Debug().Str("op", "signIn").Msg("orchestrator op failed: bad password")
		return nil, walleterr.New("signIn", walleterr.BadPassword, err)
	}
	mk, err := seckey.NewMK(mkBytes)
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Corrupt, err)
	}

	syncKeyHex, err := envelope.Decrypt(login.ESyncKey, l2.Bytes())
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Corrupt, err)
	}
	syncKeyRaw, err := cryptoprim.Base16Decode(string(syncKeyHex))
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Corrupt, err)
	}
	syncKey, err := seckey.NewSyncKey(syncKeyRaw)
	if err != nil {
		return nil, walleterr.New("signIn", walleterr.Corrupt, err)
	}

	return session.New(session.Params{
		Username: canonical, AccountDir: o.store.AccountDir(canonical),
		S1: s1, S2: care.SNRP2, S3: care.SNRP3, S4: care.SNRP4,
		L1: l1, P1: p1, L2: l2, LP2: lp2, MK: mk, SyncKey: syncKey,
	}), nil
}

// fetchPackages pulls the Care and Login Packages from the server,
// transparently answering an OTP challenge from the local OtpKey.json if
// one is raised.
func (o *Orchestrator) fetchPackages(ctx context.Context, canonical string, l1 seckey.L1, p1 seckey.P1, lra1 seckey.LRA1) (careJSON, loginJSON []byte, err error) {
	careStr, err := o.server.GetCarePackage(ctx, l1.Bytes())
	if err != nil {
		return nil, nil, err
	}

	var p1Bytes, lra1Bytes []byte
	if lra1.Bytes() != nil {
		lra1Bytes = lra1.Bytes()
	} else {
		p1Bytes = p1.Bytes()
	}

	loginStr, err := o.server.GetLoginPackage(ctx, l1.Bytes(), p1Bytes, lra1Bytes, "")
	if walleterr.Is(err, walleterr.OtpRequired) {
		raw, ok, otpErr := o.store.ReadOtpKey(canonical)
		if otpErr != nil {
			return nil, nil, otpErr
		}
		if !ok {
			return nil, nil, err
		}
		otpFile, parseErr := packages.ParseOtpKeyFile(raw)
		if parseErr != nil {
			return nil, nil, walleterr.New("signIn", walleterr.Corrupt, parseErr)
		}
		otpKey, keyErr := otpFile.Key()
		if keyErr != nil {
			return nil, nil, walleterr.New("signIn", walleterr.Corrupt, keyErr)
		}
		code := derive.CurrentTOTP(otpKey, o.now())
		loginStr, err = o.server.GetLoginPackage(ctx, l1.Bytes(), p1Bytes, lra1Bytes, code)
	}
	if err != nil {
		return nil, nil, remapRecoveryAuth("signIn", err)
	}

	return []byte(careStr), []byte(loginStr), nil
}

// ChangePassword generates new P/P1/LP2, re-encrypts MK, uploads the new
// Login Package, and — only after the server ACKs — rekeys sess and
// persists the new Login Package locally.
func (o *Orchestrator) ChangePassword(ctx context.Context, sess *session.Session, newPassword string) error {
	if sess.LoggedOut() {
		return fmt.Errorf("orchestrator: change password on logged-out session")
	}

	s1, s2, _, _ := sess.Profiles()

	newP1, err := derive.DeriveP1(newPassword, s1)
	if err != nil {
		return walleterr.New("changePassword", walleterr.Storage, err)
	}
	newLP2, err := derive.DeriveLP2(sess.Username(), newPassword, s2)
	if err != nil {
		return walleterr.New("changePassword", walleterr.Storage, err)
	}

	newEMK, err := envelope.Encrypt(sess.DataKey(), newLP2.Bytes())
	if err != nil {
		return walleterr.New("changePassword", walleterr.Storage, err)
	}
	syncKeyRaw, err := cryptoprim.Base16Decode(sess.SyncRepoURL())
	if err != nil {
		return walleterr.New("changePassword", walleterr.Corrupt, err)
	}
	newESyncKey, err := envelope.Encrypt([]byte(cryptoprim.Base16Encode(syncKeyRaw)), sess.L2Bytes())
	if err != nil {
		return walleterr.New("changePassword", walleterr.Storage, err)
	}

	newLogin := packages.NewLoginPackage(newEMK, newESyncKey)
	loginJSON, err := newLogin.MarshalCreate()
	if err != nil {
		return walleterr.New("changePassword", walleterr.Storage, err)
	}

	// If recovery is set, the ELP2/ELRA2 sidecars are sealed against the old
	// LP2 and must be rewritten under the new one. The LRA2 needed for that
	// comes from the session when it carries recovery tokens, otherwise from
	// decrypting the ELRA2 sidecar with the old LP2.
	lra2Bytes, hasSidecars, err := o.recoveryLRA2(sess)
	if err != nil {
		return err
	}
	var newELP2JSON, newELRA2JSON []byte
	if hasSidecars {
		newELP2, encErr := envelope.Encrypt(newLP2.Bytes(), lra2Bytes)
		if encErr != nil {
			return walleterr.New("changePassword", walleterr.Storage, encErr)
		}
		newELRA2, encErr := envelope.Encrypt(lra2Bytes, newLP2.Bytes())
		if encErr != nil {
			return walleterr.New("changePassword", walleterr.Storage, encErr)
		}
		if newELP2JSON, err = json.Marshal(newELP2); err != nil {
			return walleterr.New("changePassword", walleterr.Storage, err)
		}
		if newELRA2JSON, err = json.Marshal(newELRA2); err != nil {
			return walleterr.New("changePassword", walleterr.Storage, err)
		}
	}

	l1Bytes, p1Bytes := sess.AuthTokens()
	var authP1, authLRA1 []byte
	_, lra1, _, hasRecovery := sess.RecoveryTokens()
	if sess.RecoveryLimited() && hasRecovery {
		authLRA1 = lra1.Bytes()
	} else {
		authP1 = p1Bytes
	}

	if err := o.server.ChangePassword(ctx, l1Bytes, authP1, authLRA1, newP1.Bytes(), loginJSON); err != nil {
		return remapRecoveryAuth("changePassword", err)
	}

	// Server ACKed: the new credentials are authoritative from here even
	// if a local write below fails.
	if o.RekeyWallets != nil {
		if err := o.RekeyWallets(sess.LP2Bytes(), newLP2.Bytes()); err != nil {
			return walleterr.New("changePassword", walleterr.Storage, err)
		}
	}
	if err := sess.Rekey(newP1, newLP2); err != nil {
		return err
	}
	if err := o.store.WriteLoginPackage(sess.Username(), loginJSON); err != nil {
		return err
	}
	if hasSidecars {
		if err := o.store.WriteSyncFile(sess.Username(), elp2File, newELP2JSON); err != nil {
			return err
		}
		if err := o.store.WriteSyncFile(sess.Username(), elra2File, newELRA2JSON); err != nil {
			return err
		}
	}
	return nil
}

// recoveryLRA2 materializes the LRA2 bytes needed to re-seal the recovery
// sidecars during a password change. It prefers the session's own recovery
// tokens (present after SetRecovery or a recovery sign-in) and falls back
// to decrypting the on-disk ELRA2 sidecar with the current LP2. The second
// return value reports whether recovery sidecars exist at all.
func (o *Orchestrator) recoveryLRA2(sess *session.Session) (lra2 []byte, ok bool, err error) {
	if _, _, sessLRA2, has := sess.RecoveryTokens(); has {
		return sessLRA2.Bytes(), true, nil
	}

	elra2Raw, present, err := o.store.ReadSyncFile(sess.Username(), elra2File)
	if err != nil {
		return nil, false, err
	}
	if !present {
		return nil, false, nil
	}

	var elra2 envelope.Envelope
	if jsonErr := json.Unmarshal(elra2Raw, &elra2); jsonErr != nil {
		return nil, false, walleterr.New("changePassword", walleterr.Corrupt, jsonErr)
	}
	lra2, err = envelope.Decrypt(elra2, sess.LP2Bytes())
	if err != nil {
		return nil, false, walleterr.New("changePassword", walleterr.Corrupt, err)
	}
	return lra2, true, nil
}

// SetRecovery installs a fresh recovery setup: a new S3, LRA/LRA1/LRA2, an
// encrypted recovery-questions envelope in the Care Package, and the
// ELP2/ELRA2 sidecar files in the sync repo.
func (o *Orchestrator) SetRecovery(ctx context.Context, sess *session.Session, questions, answers string) error {
	if sess.LoggedOut() {
		return fmt.Errorf("orchestrator: set recovery on logged-out session")
	}
	if sess.RecoveryLimited() {
		return walleterr.New("setRecovery", walleterr.Server, fmt.Errorf("session does not have capability to set recovery"))
	}

	canonical := sess.Username()
	s1, s2, _, s4 := sess.Profiles()

	newS3, err := snrp.NewClientProfile()
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}

	lra, err := seckey.NewLRA(derive.LRA(canonical, answers))
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}
	lra1, err := derive.DeriveLRA1(canonical, answers, s1)
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}
	lra2, err := derive.DeriveLRA2(canonical, answers, newS3)
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}

	erq, err := envelope.Encrypt([]byte(questions), sess.L2Bytes())
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}
	elp2, err := envelope.Encrypt(sess.LP2Bytes(), lra2.Bytes())
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}
	elra2, err := envelope.Encrypt(lra2.Bytes(), sess.LP2Bytes())
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}

	careJSONRaw, loginJSONRaw, err := o.store.ReadPackages(canonical)
	if err != nil {
		return err
	}
	care, err := packages.ParseCarePackage(careJSONRaw)
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Corrupt, err)
	}
	care.SNRP2, care.SNRP4 = s2, s4
	care.SNRP3 = newS3
	care.ERQ = &erq

	careJSON, err := care.MarshalEdit()
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}

	l1Bytes, p1Bytes := sess.AuthTokens()
	_, existingLRA1, _, hadRecovery := sess.RecoveryTokens()
	var existingLRA1Bytes []byte
	if hadRecovery {
		existingLRA1Bytes = existingLRA1.Bytes()
	}

	if err := o.server.SetRecovery(ctx, l1Bytes, p1Bytes, existingLRA1Bytes, careJSON, loginJSONRaw); err != nil {
		return err
	}

	elp2JSON, err := json.Marshal(elp2)
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}
	elra2JSON, err := json.Marshal(elra2)
	if err != nil {
		return walleterr.New("setRecovery", walleterr.Storage, err)
	}

	if err := o.store.WriteCarePackage(canonical, careJSON); err != nil {
		return err
	}
	if err := o.store.WriteSyncFile(canonical, elp2File, elp2JSON); err != nil {
		return err
	}
	if err := o.store.WriteSyncFile(canonical, elra2File, elra2JSON); err != nil {
		return err
	}

	return sess.InstallRecovery(newS3, lra, lra1, lra2)
}

// RecoverySignIn authenticates with username + recoveryAnswers instead of a
// password, producing a recovery-limited Session that is enough to change
// the password but not enough to set a new recovery.
func (o *Orchestrator) RecoverySignIn(ctx context.Context, username, answers string) (*session.Session, error) {
	canonical, err := derive.CanonicalizeUsername(username)
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.BadUsername, err)
	}

	s1 := snrp.ServerProfile()
	l1, err := derive.DeriveL1(canonical, s1)
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Storage, err)
	}

	careStr, err := o.server.GetCarePackage(ctx, l1.Bytes())
	if err != nil {
		return nil, err
	}
	care, err := packages.ParseCarePackage([]byte(careStr))
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Corrupt, err)
	}
	if care.ERQ == nil {
		return nil, walleterr.New("recoverySignIn", walleterr.NoRecoveryQuestions, fmt.Errorf("account has no recovery questions"))
	}

	l2, err := derive.DeriveL2(canonical, care.SNRP4)
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Storage, err)
	}
	lra, err := seckey.NewLRA(derive.LRA(canonical, answers))
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Storage, err)
	}
	lra1, err := derive.DeriveLRA1(canonical, answers, s1)
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Storage, err)
	}
	lra2, err := derive.DeriveLRA2(canonical, answers, care.SNRP3)
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Storage, err)
	}

	loginStr, err := o.server.GetLoginPackage(ctx, l1.Bytes(), nil, lra1.Bytes(), "")
	if err != nil {
		return nil, remapRecoveryAuth("recoverySignIn", err)
	}
	login, err := packages.ParseLoginPackage([]byte(loginStr))
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Corrupt, err)
	}

	elp2Raw, ok, err := o.store.ReadSyncFile(canonical, elp2File)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, walleterr.New("recoverySignIn", walleterr.Storage, fmt.Errorf("missing %s", elp2File))
	}
	var elp2 envelope.Envelope
	if jsonErr := json.Unmarshal(elp2Raw, &elp2); jsonErr != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Corrupt, jsonErr)
	}

	lp2Bytes, err := envelope.Decrypt(elp2, lra2.Bytes())
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.BadRecoveryAnswers, err)
	}
	lp2, err := seckey.NewLP2(lp2Bytes)
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Corrupt, err)
	}

	mkBytes, err := envelope.Decrypt(login.EMK, lp2Bytes)
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Corrupt, err)
	}
	mk, err := seckey.NewMK(mkBytes)
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Corrupt, err)
	}

	syncKeyHex, err := envelope.Decrypt(login.ESyncKey, l2.Bytes())
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Corrupt, err)
	}
	syncKeyRaw, err := cryptoprim.Base16Decode(string(syncKeyHex))
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Corrupt, err)
	}
	syncKey, err := seckey.NewSyncKey(syncKeyRaw)
	if err != nil {
		return nil, walleterr.New("recoverySignIn", walleterr.Corrupt, err)
	}

	params := session.Params{
		Username: canonical, AccountDir: o.store.AccountDir(canonical),
		S1: s1, S2: care.SNRP2, S3: care.SNRP3, S4: care.SNRP4,
		L1: l1, L2: l2, LP2: lp2, MK: mk, SyncKey: syncKey,
	}
	return session.NewFromRecovery(params, lra, lra1, lra2), nil
}

// FetchRecoveryQuestions retrieves and decrypts the plaintext recovery
// questions for username, without establishing a Session or asking for a
// password: the decrypting key, L2, derives from the username alone.
// Returns NoRecoveryQuestions if the account never called SetRecovery.
func (o *Orchestrator) FetchRecoveryQuestions(ctx context.Context, username string) (string, error) {
	canonical, err := derive.CanonicalizeUsername(username)
	if err != nil {
		return "", walleterr.New("fetchRecoveryQuestions", walleterr.BadUsername, err)
	}

	s1 := snrp.ServerProfile()
	l1, err := derive.DeriveL1(canonical, s1)
	if err != nil {
		return "", walleterr.New("fetchRecoveryQuestions", walleterr.Storage, err)
	}

	careStr, err := o.server.GetCarePackage(ctx, l1.Bytes())
	if err != nil {
		return "", err
	}
	care, err := packages.ParseCarePackage([]byte(careStr))
	if err != nil {
		return "", walleterr.New("fetchRecoveryQuestions", walleterr.Corrupt, err)
	}
	if care.ERQ == nil {
		return "", walleterr.New("fetchRecoveryQuestions", walleterr.NoRecoveryQuestions, fmt.Errorf("account has no recovery questions"))
	}

	l2, err := derive.DeriveL2(canonical, care.SNRP4)
	if err != nil {
		return "", walleterr.New("fetchRecoveryQuestions", walleterr.Storage, err)
	}

	questions, err := envelope.Decrypt(*care.ERQ, l2.Bytes())
	if err != nil {
		return "", walleterr.New("fetchRecoveryQuestions", walleterr.DecryptFailure, err)
	}
	return string(questions), nil
}

// CheckRecoveryAnswersOnline asks the server whether answers are correct
// for username, without establishing a Session.
func (o *Orchestrator) CheckRecoveryAnswersOnline(ctx context.Context, username, answers string) (bool, error) {
	canonical, err := derive.CanonicalizeUsername(username)
	if err != nil {
		return false, walleterr.New("checkRecoveryAnswers", walleterr.BadUsername, err)
	}

	s1 := snrp.ServerProfile()
	l1, err := derive.DeriveL1(canonical, s1)
	if err != nil {
		return false, walleterr.New("checkRecoveryAnswers", walleterr.Storage, err)
	}
	lra1, err := derive.DeriveLRA1(canonical, answers, s1)
	if err != nil {
		return false, walleterr.New("checkRecoveryAnswers", walleterr.Storage, err)
	}

	_, err = o.server.GetLoginPackage(ctx, l1.Bytes(), nil, lra1.Bytes(), "")
	if err == nil {
		return true, nil
	}
	if walleterr.Is(err, walleterr.BadPassword) {
		return false, nil
	}
	return false, remapRecoveryAuth("checkRecoveryAnswers", err)
}

// CheckRecoveryAnswersOffline attempts to decrypt the local ELP2 sidecar
// with a locally-derived LRA2, without contacting the server. Useful when
// offline.
func (o *Orchestrator) CheckRecoveryAnswersOffline(username, answers string) (bool, error) {
	canonical, err := derive.CanonicalizeUsername(username)
	if err != nil {
		return false, walleterr.New("checkRecoveryAnswers", walleterr.BadUsername, err)
	}

	careJSONRaw, _, err := o.store.ReadPackages(canonical)
	if err != nil {
		return false, err
	}
	care, err := packages.ParseCarePackage(careJSONRaw)
	if err != nil {
		return false, walleterr.New("checkRecoveryAnswers", walleterr.Corrupt, err)
	}

	lra2, err := derive.DeriveLRA2(canonical, answers, care.SNRP3)
	if err != nil {
		return false, walleterr.New("checkRecoveryAnswers", walleterr.Storage, err)
	}

	elp2Raw, ok, err := o.store.ReadSyncFile(canonical, elp2File)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, walleterr.New("checkRecoveryAnswers", walleterr.NoRecoveryQuestions, fmt.Errorf("no ELP2 sidecar present"))
	}
	var elp2 envelope.Envelope
	if jsonErr := json.Unmarshal(elp2Raw, &elp2); jsonErr != nil {
		return false, walleterr.New("checkRecoveryAnswers", walleterr.Corrupt, jsonErr)
	}

	if _, err := envelope.Decrypt(elp2, lra2.Bytes()); err != nil {
		return false, nil
	}
	return true, nil
}

// SetOtpKey generates a fresh random TOTP seed, uploads it to the server
// under sess's auth tokens, and — only after the server accepts it —
// writes the local OtpKey.json sidecar. Requires Session.
func (o *Orchestrator) SetOtpKey(ctx context.Context, sess *session.Session) error {
	if sess.LoggedOut() {
		return fmt.Errorf("orchestrator: set OTP key on logged-out session")
	}

	key, err := cryptoprim.RandomBytes(20)
	if err != nil {
		return walleterr.New("setOtpKey", walleterr.Storage, err)
	}
	otpFile := packages.NewOtpKeyFile(key)

	l1, p1 := sess.AuthTokens()
	if err := o.server.UploadOtp(ctx, l1, p1, otpFile.TOTP); err != nil {
		return err
	}

	raw, err := otpFile.Marshal()
	if err != nil {
		return walleterr.New("setOtpKey", walleterr.Storage, err)
	}
	return o.store.WriteOtpKey(sess.Username(), raw)
}

// RemoveOtpKey deletes the local OtpKey.json sidecar, so future sign-ins no
// longer resubmit a TOTP automatically. The server-side OTP requirement, if
// any, is unaffected: it is lifted only by a server-side flow outside this
// core's scope (spec §1 Non-goals).
func (o *Orchestrator) RemoveOtpKey(sess *session.Session) error {
	if sess.LoggedOut() {
		return fmt.Errorf("orchestrator: remove OTP key on logged-out session")
	}
	return o.store.DeleteOtpKey(sess.Username())
}
