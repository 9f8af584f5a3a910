// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package serverclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultwire/walletcore/internal/walleterr"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c, err := New(serverURL, 5*time.Second)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
	_ = status
}

func TestCreate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/create", r.URL.Path)

		var req CreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.L1)
		assert.NotEmpty(t, req.P1)

		writeJSON(w, http.StatusOK, `{"status_code":0}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Create(context.Background(), []byte("l1"), []byte("p1"), []byte("{}"), []byte("{}"), []byte("synckey"))
	require.NoError(t, err)
}

func TestCreate_AccountExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status_code":4,"message":"account exists"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Create(context.Background(), []byte("l1"), []byte("p1"), []byte("{}"), []byte("{}"), []byte("synckey"))
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.AccountAlreadyExists))
}

func TestGetCarePackage_NoAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status_code":2,"message":"no account"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetCarePackage(context.Background(), []byte("l1"))
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.AccountDoesNotExist))
}

func TestGetCarePackage_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status_code":0,"results":{"care_package":"{\"SNRP2\":{}}"}}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	got, err := c.GetCarePackage(context.Background(), []byte("l1"))
	require.NoError(t, err)
	assert.Equal(t, `{"SNRP2":{}}`, got)
}

func TestGetLoginPackage_OtpRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status_code":6,"message":"otp required"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetLoginPackage(context.Background(), []byte("l1"), []byte("p1"), nil, "")
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.OtpRequired))
}

func TestGetLoginPackage_InvalidOtp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "000000", body["otp"])
		writeJSON(w, http.StatusOK, `{"status_code":7,"message":"bad otp"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.GetLoginPackage(context.Background(), []byte("l1"), []byte("p1"), nil, "000000")
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.OtpMismatch))
}

func TestChangePassword_InvalidPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status_code":3,"message":"invalid password"}`)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.ChangePassword(context.Background(), []byte("l1"), []byte("oldp1"), nil, []byte("newp1"), []byte("{}"))
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.BadPassword))
}

func TestPost_NetworkErrorOnUnreachableServer(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	err := c.UploadOtp(context.Background(), []byte("l1"), []byte("p1"), "ABCD")
	require.Error(t, err)
	assert.True(t, walleterr.Is(err, walleterr.NetworkError))
}

func TestNew_RejectsEmptyBaseURL(t *testing.T) {
	_, err := New("", time.Second)
	require.Error(t, err)
}
