// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultwire/walletcore/internal/accountstore"
	"github.com/vaultwire/walletcore/internal/derive"
	"github.com/vaultwire/walletcore/internal/seckey"
	"github.com/vaultwire/walletcore/internal/session"
	"github.com/vaultwire/walletcore/internal/snrp"
	"github.com/vaultwire/walletcore/internal/walleterr"
)

func newTestSession(t *testing.T, store *accountstore.Store, username string) *session.Session {
	t.Helper()

	canonical, err := store.Create(username)
	require.NoError(t, err)

	l1, err := seckey.NewL1([]byte("l1-bytes"))
	require.NoError(t, err)
	p1, err := seckey.NewP1([]byte("p1-bytes"))
	require.NoError(t, err)
	l2, err := seckey.NewL2([]byte("l2-bytes"))
	require.NoError(t, err)
	lp2, err := seckey.NewLP2([]byte("lp2-bytes"))
	require.NoError(t, err)
	mk, err := derive.NewMK()
	require.NoError(t, err)
	sk, err := derive.NewSyncKey()
	require.NoError(t, err)

	s1 := snrp.ServerProfile()
	s2, err := snrp.NewClientProfile()
	require.NoError(t, err)
	s3, err := snrp.NewClientProfile()
	require.NoError(t, err)
	s4, err := snrp.NewClientProfile()
	require.NoError(t, err)

	return session.New(session.Params{
		Username:   canonical,
		AccountDir: store.AccountDir(canonical),
		S1:         s1,
		S2:         s2,
		S3:         s3,
		S4:         s4,
		L1:         l1,
		P1:         p1,
		L2:         l2,
		LP2:        lp2,
		MK:         mk,
		SyncKey:    sk,
	})
}

func TestLoad_NoFile_ReturnsDefaults(t *testing.T) {
	store := accountstore.New(t.TempDir())
	sess := newTestSession(t, store, "alice")

	s, err := Load(store, sess)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	store := accountstore.New(t.TempDir())
	sess := newTestSession(t, store, "bob")

	first := "Bob"
	last := "Builder"
	pin := "0000"

	in := Default()
	in.FirstName = &first
	in.LastName = &last
	in.PIN = &pin
	in.MinutesAutoLogout = 5
	in.NumCurrency = 978

	require.NoError(t, Save(store, sess, in))

	out, err := Load(store, sess)
	require.NoError(t, err)

	assert.Equal(t, "0000", *out.PIN)
	assert.Equal(t, 5, out.MinutesAutoLogout)
	assert.Equal(t, 978, out.NumCurrency)
	assert.Equal(t, "Bob Builder", out.FullName())
}

func TestSave_NonNumericPin(t *testing.T) {
	store := accountstore.New(t.TempDir())
	sess := newTestSession(t, store, "carol")

	pin := "0a00"
	in := Default()
	in.PIN = &pin

	err := Save(store, sess, in)
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.NonNumericPin))

	_, ok, readErr := store.ReadSyncFile(sess.Username(), FileName)
	require.NoError(t, readErr)
	assert.False(t, ok, "a rejected save must not write anything")
}

func TestFullName(t *testing.T) {
	first, last, nick := "Ada", "Lovelace", "Countess"

	tests := []struct {
		name string
		s    Settings
		want string
	}{
		{"all parts", Settings{FirstName: &first, LastName: &last, Nickname: &nick}, "Ada Lovelace - Countess"},
		{"no nickname", Settings{FirstName: &first, LastName: &last}, "Ada Lovelace"},
		{"nickname only", Settings{Nickname: &nick}, "Countess"},
		{"nothing set", Settings{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.s.FullName())
		})
	}
}

func TestMergeExchangeRateDefaults_AppendsMissingStably(t *testing.T) {
	custom := []ExchangeRateSource{{CurrencyNum: 978, Source: "CustomEUR"}}

	merged := mergeExchangeRateDefaults(custom)

	require.Len(t, merged, len(exchangeRateDefaults))
	assert.Equal(t, ExchangeRateSource{CurrencyNum: 978, Source: "CustomEUR"}, merged[0])

	// Every default currency other than the overridden one is present,
	// in the fixed seed order, after the custom entry.
	idx := 1
	for i, d := range exchangeRateDefaults {
		if d.CurrencyNum == 978 {
			continue
		}
		assert.Equal(t, d, merged[idx], "default at seed index %d out of order", i)
		idx++
	}
}

func TestDefault_Values(t *testing.T) {
	d := Default()
	assert.Equal(t, 60, d.MinutesAutoLogout)
	assert.Equal(t, "en", d.Language)
	assert.Equal(t, currencyUSD, d.NumCurrency)
	assert.True(t, d.SpendRequirePinEnabled)
	assert.EqualValues(t, 5_000_000, d.SpendRequirePinSatoshis)
	assert.Equal(t, BitcoinDenomination{DenominationType: DenominationMBTC, Satoshi: 100000}, d.BitcoinDenomination)
	assert.Len(t, d.ExchangeRateSources, len(exchangeRateDefaults))
}

func TestParse_PreservesUnknownFieldsAcrossMarshal(t *testing.T) {
	raw := []byte(`{"language":"fr","futureFeatureFlag":true}`)

	parsed, err := parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "fr", parsed.Language)

	resaved, err := parsed.marshal()
	require.NoError(t, err)
	assert.Contains(t, string(resaved), `"futureFeatureFlag":true`)
}
