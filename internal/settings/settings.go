// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package settings implements Settings: the encrypted, versioned
// per-account preferences record that lives inside the sync repo,
// encrypted under the signed-in Session's master key. Unlike the Care and
// Login Packages (internal/packages), Settings carries no stable
// key-order requirement — only that unknown top-level fields survive a
// load/save round trip, so a newer client's extra fields are not lost by
// an older one.
package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vaultwire/walletcore/internal/accountstore"
	"github.com/vaultwire/walletcore/internal/envelope"
	"github.com/vaultwire/walletcore/internal/session"
	"github.com/vaultwire/walletcore/internal/walleterr"
)

// FileName is the sync-subtree filename Settings is stored under.
const FileName = "Settings.json"

// DenominationType selects the unit BitcoinDenomination.Satoshi is
// expressed in.
type DenominationType int

const (
	DenominationBTC  DenominationType = 0
	DenominationMBTC DenominationType = 1
	DenominationUBTC DenominationType = 2
)

// BitcoinDenomination is the display unit for amounts: Satoshi is the
// satoshi count of one display unit (100000 satoshi == 1 mBTC).
type BitcoinDenomination struct {
	DenominationType DenominationType `json:"denominationType"`
	Satoshi          int64            `json:"satoshi"`
}

// ExchangeRateSource names the quote provider used for one ISO-4217
// numeric currency code.
type ExchangeRateSource struct {
	CurrencyNum int    `json:"currencyNum"`
	Source      string `json:"source"`
}

// currencyUSD is the ISO-4217 numeric code for US Dollars, the default
// NumCurrency and the first entry in exchangeRateDefaults.
const currencyUSD = 840

// exchangeRateDefaults is the fixed, stable-order seed table merged into
// every loaded Settings record: a currency missing from the stored list
// is appended (never replacing an existing entry) in this order.
var exchangeRateDefaults = []ExchangeRateSource{
	{CurrencyNum: 840, Source: "Bitstamp"},
	{CurrencyNum: 978, Source: "Bitstamp"},
	{CurrencyNum: 826, Source: "Bitstamp"},
	{CurrencyNum: 124, Source: "Bitstamp"},
	{CurrencyNum: 36, Source: "Bitstamp"},
	{CurrencyNum: 392, Source: "Bitstamp"},
	{CurrencyNum: 156, Source: "Bitstamp"},
	{CurrencyNum: 356, Source: "Bitstamp"},
}

// Settings is the decrypted form of Settings.json, bound to one signed-in
// Session.
type Settings struct {
	FirstName *string
	LastName  *string
	Nickname  *string
	PIN       *string

	NameOnPayments        bool
	MinutesAutoLogout     int
	RecoveryReminderCount int
	Language              string
	NumCurrency           int
	ExchangeRateSources   []ExchangeRateSource
	BitcoinDenomination   BitcoinDenomination
	AdvancedFeatures      bool

	DailySpendLimitEnabled  bool
	DailySpendLimitSatoshis int64
	SpendRequirePinEnabled  bool
	SpendRequirePinSatoshis int64

	DisablePINLogin bool

	unknown map[string]json.RawMessage
}

// Default returns the Settings record an account has before it has ever
// saved one.
func Default() Settings {
	return Settings{
		MinutesAutoLogout:       60,
		Language:                "en",
		NumCurrency:             currencyUSD,
		ExchangeRateSources:     append([]ExchangeRateSource(nil), exchangeRateDefaults...),
		BitcoinDenomination:     BitcoinDenomination{DenominationType: DenominationMBTC, Satoshi: 100000},
		SpendRequirePinEnabled:  true,
		SpendRequirePinSatoshis: 5_000_000,
	}
}

// FullName composes the display name from FirstName, LastName, and
// Nickname, skipping whichever parts are absent: "<first> <last> -
// <nick>".
func (s Settings) FullName() string {
	var parts []string
	if s.FirstName != nil && *s.FirstName != "" {
		parts = append(parts, *s.FirstName)
	}
	if s.LastName != nil && *s.LastName != "" {
		parts = append(parts, *s.LastName)
	}
	name := strings.Join(parts, " ")

	if s.Nickname == nil || *s.Nickname == "" {
		return name
	}
	if name == "" {
		return *s.Nickname
	}
	return name + " - " + *s.Nickname
}

// mergeExchangeRateDefaults appends any default currency absent from
// sources, in exchangeRateDefaults' fixed order, leaving entries already
// present untouched.
func mergeExchangeRateDefaults(sources []ExchangeRateSource) []ExchangeRateSource {
	have := make(map[int]bool, len(sources))
	for _, s := range sources {
		have[s.CurrencyNum] = true
	}

	merged := append([]ExchangeRateSource(nil), sources...)
	for _, d := range exchangeRateDefaults {
		if !have[d.CurrencyNum] {
			merged = append(merged, d)
		}
	}
	return merged
}

// validatePIN rejects a PIN containing any byte outside ASCII '0'-'9'.
func validatePIN(pin *string) error {
	if pin == nil {
		return nil
	}
	for _, r := range *pin {
		if r < '0' || r > '9' {
			return walleterr.New("settings.save", walleterr.NonNumericPin, fmt.Errorf("PIN must be ASCII digits, got %q", *pin))
		}
	}
	return nil
}

func unmarshalField(raw json.RawMessage, target any, field string) error {
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("settings: parse %s: %w", field, err)
	}
	return nil
}

// parse decodes Settings.json's plaintext body (after envelope
// decryption). Fields absent from raw fall back to Default(); the
// exchange-rate-source default list is always merged in; unknown
// top-level fields are captured for the next Save.
func parse(raw []byte) (Settings, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(raw, &all); err != nil {
		return Settings{}, fmt.Errorf("settings: parse: %w", err)
	}

	s := Default()
	unknown := make(map[string]json.RawMessage, len(all))

	for k, v := range all {
		var err error
		switch k {
		case "firstName":
			var str string
			if err = unmarshalField(v, &str, k); err == nil {
				s.FirstName = &str
			}
		case "lastName":
			var str string
			if err = unmarshalField(v, &str, k); err == nil {
				s.LastName = &str
			}
		case "nickname":
			var str string
			if err = unmarshalField(v, &str, k); err == nil {
				s.Nickname = &str
			}
		case "PIN":
			var str string
			if err = unmarshalField(v, &str, k); err == nil {
				s.PIN = &str
			}
		case "nameOnPayments":
			err = unmarshalField(v, &s.NameOnPayments, k)
		case "minutesAutoLogout":
			err = unmarshalField(v, &s.MinutesAutoLogout, k)
		case "recoveryReminderCount":
			err = unmarshalField(v, &s.RecoveryReminderCount, k)
		case "language":
			err = unmarshalField(v, &s.Language, k)
		case "numCurrency":
			err = unmarshalField(v, &s.NumCurrency, k)
		case "exchangeRateSources":
			var sources []ExchangeRateSource
			if err = unmarshalField(v, &sources, k); err == nil {
				s.ExchangeRateSources = sources
			}
		case "bitcoinDenomination":
			err = unmarshalField(v, &s.BitcoinDenomination, k)
		case "advancedFeatures":
			err = unmarshalField(v, &s.AdvancedFeatures, k)
		case "dailySpendLimitEnabled":
			err = unmarshalField(v, &s.DailySpendLimitEnabled, k)
		case "dailySpendLimitSatoshis":
			err = unmarshalField(v, &s.DailySpendLimitSatoshis, k)
		case "spendRequirePinEnabled":
			err = unmarshalField(v, &s.SpendRequirePinEnabled, k)
		case "spendRequirePinSatoshis":
			err = unmarshalField(v, &s.SpendRequirePinSatoshis, k)
		case "disablePINLogin":
			err = unmarshalField(v, &s.DisablePINLogin, k)
		default:
			unknown[k] = v
		}
		if err != nil {
			return Settings{}, err
		}
	}

	s.ExchangeRateSources = mergeExchangeRateDefaults(s.ExchangeRateSources)
	s.unknown = unknown
	return s, nil
}

// marshal renders Settings as Settings.json's plaintext body (before
// envelope encryption), carrying forward any unknown top-level fields
// from the file this value was parsed from.
func (s Settings) marshal() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.unknown)+17)

	set := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("settings: marshal %s: %w", key, err)
		}
		out[key] = raw
		return nil
	}

	var err error
	if s.FirstName != nil {
		err = set("firstName", *s.FirstName)
	}
	if err == nil && s.LastName != nil {
		err = set("lastName", *s.LastName)
	}
	if err == nil && s.Nickname != nil {
		err = set("nickname", *s.Nickname)
	}
	if err == nil && s.PIN != nil {
		err = set("PIN", *s.PIN)
	}
	if err == nil {
		err = set("nameOnPayments", s.NameOnPayments)
	}
	if err == nil {
		err = set("minutesAutoLogout", s.MinutesAutoLogout)
	}
	if err == nil {
		err = set("recoveryReminderCount", s.RecoveryReminderCount)
	}
	if err == nil {
		err = set("language", s.Language)
	}
	if err == nil {
		err = set("numCurrency", s.NumCurrency)
	}
	if err == nil {
		err = set("exchangeRateSources", s.ExchangeRateSources)
	}
	if err == nil {
		err = set("bitcoinDenomination", s.BitcoinDenomination)
	}
	if err == nil {
		err = set("advancedFeatures", s.AdvancedFeatures)
	}
	if err == nil {
		err = set("dailySpendLimitEnabled", s.DailySpendLimitEnabled)
	}
	if err == nil {
		err = set("dailySpendLimitSatoshis", s.DailySpendLimitSatoshis)
	}
	if err == nil {
		err = set("spendRequirePinEnabled", s.SpendRequirePinEnabled)
	}
	if err == nil {
		err = set("spendRequirePinSatoshis", s.SpendRequirePinSatoshis)
	}
	if err == nil {
		err = set("disablePINLogin", s.DisablePINLogin)
	}
	if err != nil {
		return nil, err
	}

	for k, v := range s.unknown {
		if _, exists := out[k]; !exists {
			out[k] = v
		}
	}

	return json.Marshal(out)
}

// Load reads and decrypts sess's Settings.json from store, returning
// Default() if the account has never saved one.
func Load(store *accountstore.Store, sess *session.Session) (Settings, error) {
	raw, ok, err := store.ReadSyncFile(sess.Username(), FileName)
	if err != nil {
		return Settings{}, walleterr.New("settings.load", walleterr.Storage, err)
	}
	if !ok {
		return Default(), nil
	}

	var env envelope.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Settings{}, walleterr.New("settings.load", walleterr.Corrupt, fmt.Errorf("parse envelope: %w", err))
	}

	payload, err := envelope.Decrypt(env, sess.DataKey())
	if err != nil {
		return Settings{}, walleterr.New("settings.load", walleterr.DecryptFailure, err)
	}

	s, err := parse(payload)
	if err != nil {
		return Settings{}, walleterr.New("settings.load", walleterr.Corrupt, err)
	}
	return s, nil
}

// Save validates, serializes, encrypts under sess's master key, and
// atomically writes s as sess's Settings.json. Returns
// walleterr.NonNumericPin without writing anything if s.PIN contains a
// non-digit byte.
func Save(store *accountstore.Store, sess *session.Session, s Settings) error {
	if err := validatePIN(s.PIN); err != nil {
		return err
	}

	payload, err := s.marshal()
	if err != nil {
		return walleterr.New("settings.save", walleterr.Corrupt, err)
	}

	env, err := envelope.Encrypt(payload, sess.DataKey())
	if err != nil {
		return walleterr.New("settings.save", walleterr.Storage, err)
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return walleterr.New("settings.save", walleterr.Storage, err)
	}

	return store.WriteSyncFile(sess.Username(), FileName, raw)
}
