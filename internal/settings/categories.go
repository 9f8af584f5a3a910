// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package settings

import (
	"encoding/json"
	"fmt"

	"github.com/vaultwire/walletcore/internal/accountstore"
	"github.com/vaultwire/walletcore/internal/session"
	"github.com/vaultwire/walletcore/internal/walleterr"
)

// CategoriesFileName is the sync-subtree filename the transaction-category
// list is stored under. Unlike Settings.json, the list is cleartext: it
// carries no secrets, only user-chosen labels.
const CategoriesFileName = "Categories.json"

type categoriesFile struct {
	Categories []string `json:"categories"`
}

// LoadCategories reads sess's category list, returning an empty list if the
// account has never saved one.
func LoadCategories(store *accountstore.Store, sess *session.Session) ([]string, error) {
	raw, ok, err := store.ReadSyncFile(sess.Username(), CategoriesFileName)
	if err != nil {
		return nil, walleterr.New("categories.load", walleterr.Storage, err)
	}
	if !ok {
		return nil, nil
	}

	var f categoriesFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, walleterr.New("categories.load", walleterr.Corrupt, fmt.Errorf("parse %s: %w", CategoriesFileName, err))
	}
	return f.Categories, nil
}

// SaveCategories atomically writes sess's category list.
func SaveCategories(store *accountstore.Store, sess *session.Session, categories []string) error {
	raw, err := json.Marshal(categoriesFile{Categories: categories})
	if err != nil {
		return walleterr.New("categories.save", walleterr.Storage, err)
	}
	return store.WriteSyncFile(sess.Username(), CategoriesFileName, raw)
}
