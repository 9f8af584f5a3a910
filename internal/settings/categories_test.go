// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package settings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultwire/walletcore/internal/accountstore"
)

func TestLoadCategories_NoFile_ReturnsEmpty(t *testing.T) {
	store := accountstore.New(t.TempDir())
	sess := newTestSession(t, store, "alice")

	categories, err := LoadCategories(store, sess)
	require.NoError(t, err)
	require.Empty(t, categories)
}

func TestCategories_RoundTrip(t *testing.T) {
	store := accountstore.New(t.TempDir())
	sess := newTestSession(t, store, "alice")

	want := []string{"Expense:Groceries", "Income:Salary", "Transfer:Savings"}
	require.NoError(t, SaveCategories(store, sess, want))

	got, err := LoadCategories(store, sess)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// The list is cleartext on disk, not an encrypted envelope.
	raw, ok, err := store.ReadSyncFile(sess.Username(), CategoriesFileName)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, string(raw), "Expense:Groceries")
}
