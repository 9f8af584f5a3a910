// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package accountstore implements AccountStore: the per-user on-disk
// directory layout rooted at <root>/Accounts/. Every write goes through a
// write-tmp/fsync/rename sequence so a crash mid-write never leaves a
// corrupt file in place of a good one.
package accountstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vaultwire/walletcore/internal/derive"
	"github.com/vaultwire/walletcore/internal/walleterr"
)

const (
	carePackageFile  = "CarePackage.json"
	loginPackageFile = "LoginPackage.json"
	otpKeyFile       = "OtpKey.json"
	syncDirName      = "sync"
)

// Store is the AccountStore: all operations are relative to root/Accounts.
type Store struct {
	accountsRoot string
}

// New roots a Store at <root>/Accounts. root is created on first write if
// missing.
func New(root string) *Store {
	return &Store{accountsRoot: filepath.Join(root, "Accounts")}
}

// dirName maps a canonical username to its on-disk directory form: spaces
// become underscores so the path stays filesystem-safe regardless of host.
// The identity input used for key derivation is always the canonical
// string, never this path form.
func dirName(canonicalUsername string) string {
	return strings.ReplaceAll(canonicalUsername, " ", "_")
}

// AccountDir returns the absolute directory for canonicalUsername, which
// must already have been through derive.CanonicalizeUsername.
func (s *Store) AccountDir(canonicalUsername string) string {
	return filepath.Join(s.accountsRoot, dirName(canonicalUsername))
}

// SyncDir returns the account's sync subtree directory.
func (s *Store) SyncDir(canonicalUsername string) string {
	return filepath.Join(s.AccountDir(canonicalUsername), syncDirName)
}

// List returns the directory-form names of every account present on disk.
// Use Find to resolve a specific username against this store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.accountsRoot)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, walleterr.New("list", walleterr.Storage, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Find canonicalizes username and reports whether a matching account
// directory exists.
func (s *Store) Find(username string) (canonical string, exists bool, err error) {
	canonical, err = derive.CanonicalizeUsername(username)
	if err != nil {
		return "", false, walleterr.New("find", walleterr.BadUsername, err)
	}

	info, statErr := os.Stat(s.AccountDir(canonical))
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return canonical, false, nil
		}
		return canonical, false, walleterr.New("find", walleterr.Storage, statErr)
	}
	return canonical, info.IsDir(), nil
}

// Create makes a fresh, empty account directory (with its sync subtree) for
// username. Returns AccountAlreadyExists if one is already present.
func (s *Store) Create(username string) (canonical string, err error) {
	canonical, exists, err := s.Find(username)
	if err != nil {
		return "", err
	}
	if exists {
		return canonical, walleterr.New("create", walleterr.AccountAlreadyExists, fmt.Errorf("account %q already exists", canonical))
	}

	dir := s.AccountDir(canonical)
	if err := os.MkdirAll(filepath.Join(dir, syncDirName), 0o700); err != nil {
		return canonical, walleterr.New("create", walleterr.Storage, err)
	}
	return canonical, nil
}

// Delete removes an account directory entirely. The orchestrator calls this
// only to roll back a directory freshly created by Create within the same
// operation; a host process may also call it directly (via Client.
// DeleteAccount) to remove an established local account outright.
func (s *Store) Delete(username string) error {
	canonical, exists, err := s.Find(username)
	if err != nil {
		return err
	}
	if !exists {
		return walleterr.New("delete", walleterr.AccountDoesNotExist, fmt.Errorf("account %q does not exist", canonical))
	}
	if err := os.RemoveAll(s.AccountDir(canonical)); err != nil {
		return walleterr.New("delete", walleterr.Storage, err)
	}
	return nil
}

// writeFileAtomic writes data to path via a temp file in the same
// directory, fsyncs it, and renames it into place, so a crash mid-write
// never leaves a truncated or partial file at path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmpPath := path + ".tmp." + uuid.NewString()
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if dirF, err := os.Open(dir); err == nil {
		dirF.Sync()
		dirF.Close()
	}

	return nil
}

func readFileOptional(path string) (data []byte, ok bool, err error) {
	data, err = os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// ReadPackages returns the raw CarePackage.json and LoginPackage.json bodies
// for username. Both must be present.
func (s *Store) ReadPackages(canonicalUsername string) (careJSON, loginJSON []byte, err error) {
	dir := s.AccountDir(canonicalUsername)

	careJSON, ok, err := readFileOptional(filepath.Join(dir, carePackageFile))
	if err != nil {
		return nil, nil, walleterr.New("readPackages", walleterr.Storage, err)
	}
	if !ok {
		return nil, nil, walleterr.New("readPackages", walleterr.AccountDoesNotExist, fmt.Errorf("missing %s", carePackageFile))
	}

	loginJSON, ok, err = readFileOptional(filepath.Join(dir, loginPackageFile))
	if err != nil {
		return nil, nil, walleterr.New("readPackages", walleterr.Storage, err)
	}
	if !ok {
		return nil, nil, walleterr.New("readPackages", walleterr.AccountDoesNotExist, fmt.Errorf("missing %s", loginPackageFile))
	}

	return careJSON, loginJSON, nil
}

// WritePackages atomically writes both CarePackage.json and
// LoginPackage.json. Callers choose MarshalCreate vs MarshalEdit on the
// packages.CarePackage/LoginPackage values before calling this.
func (s *Store) WritePackages(canonicalUsername string, careJSON, loginJSON []byte) error {
	dir := s.AccountDir(canonicalUsername)

	if err := writeFileAtomic(filepath.Join(dir, carePackageFile), careJSON, 0o600); err != nil {
		return walleterr.New("writePackages", walleterr.Storage, err)
	}
	if err := writeFileAtomic(filepath.Join(dir, loginPackageFile), loginJSON, 0o600); err != nil {
		return walleterr.New("writePackages", walleterr.Storage, err)
	}
	return nil
}

// WriteCarePackage atomically writes only CarePackage.json, leaving
// LoginPackage.json untouched. Used by set-recovery, which rewrites only
// the Care Package.
func (s *Store) WriteCarePackage(canonicalUsername string, careJSON []byte) error {
	path := filepath.Join(s.AccountDir(canonicalUsername), carePackageFile)
	if err := writeFileAtomic(path, careJSON, 0o600); err != nil {
		return walleterr.New("writeCarePackage", walleterr.Storage, err)
	}
	return nil
}

// WriteLoginPackage atomically writes only LoginPackage.json, leaving
// CarePackage.json untouched. Used by change-password, which rewrites only
// the Login Package.
func (s *Store) WriteLoginPackage(canonicalUsername string, loginJSON []byte) error {
	path := filepath.Join(s.AccountDir(canonicalUsername), loginPackageFile)
	if err := writeFileAtomic(path, loginJSON, 0o600); err != nil {
		return walleterr.New("writeLoginPackage", walleterr.Storage, err)
	}
	return nil
}

// ReadOtpKey returns the raw OtpKey.json body, if present.
func (s *Store) ReadOtpKey(canonicalUsername string) (raw []byte, ok bool, err error) {
	raw, ok, err = readFileOptional(filepath.Join(s.AccountDir(canonicalUsername), otpKeyFile))
	if err != nil {
		return nil, false, walleterr.New("readOtpKey", walleterr.Storage, err)
	}
	return raw, ok, nil
}

// WriteOtpKey atomically writes OtpKey.json.
func (s *Store) WriteOtpKey(canonicalUsername string, raw []byte) error {
	if err := writeFileAtomic(filepath.Join(s.AccountDir(canonicalUsername), otpKeyFile), raw, 0o600); err != nil {
		return walleterr.New("writeOtpKey", walleterr.Storage, err)
	}
	return nil
}

// DeleteOtpKey removes OtpKey.json, if present.
func (s *Store) DeleteOtpKey(canonicalUsername string) error {
	err := os.Remove(filepath.Join(s.AccountDir(canonicalUsername), otpKeyFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return walleterr.New("deleteOtpKey", walleterr.Storage, err)
	}
	return nil
}

// ReadSyncFile returns the raw body of a file inside the account's sync
// subtree (Settings.json, ELP2.json, ELRA2.json, Categories.json), if
// present.
func (s *Store) ReadSyncFile(canonicalUsername, name string) (raw []byte, ok bool, err error) {
	raw, ok, err = readFileOptional(filepath.Join(s.SyncDir(canonicalUsername), name))
	if err != nil {
		return nil, false, walleterr.New("readSyncFile", walleterr.Storage, err)
	}
	return raw, ok, nil
}

// WriteSyncFile atomically writes a file inside the account's sync subtree.
func (s *Store) WriteSyncFile(canonicalUsername, name string, raw []byte) error {
	if err := writeFileAtomic(filepath.Join(s.SyncDir(canonicalUsername), name), raw, 0o600); err != nil {
		return walleterr.New("writeSyncFile", walleterr.Storage, err)
	}
	return nil
}
