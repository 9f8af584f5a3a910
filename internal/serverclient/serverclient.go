// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package serverclient implements ServerClient: the JSON-over-HTTPS wire
// protocol spoken with the account server. Every method takes already
// base64-ready key bytes (the caller extracts them from the typed keys in
// internal/seckey) and classifies failures into internal/walleterr's closed
// Kind taxonomy so the orchestrator never has to pattern-match on HTTP
// status codes or message text.
package serverclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/vaultwire/walletcore/internal/cryptoprim"
	"github.com/vaultwire/walletcore/internal/walleterr"
)

// Business-level status codes carried in the response body, independent of
// the HTTP status code.
const (
	StatusSuccess         = 0
	StatusGeneralError    = 1
	StatusNoAccount       = 2
	StatusInvalidPassword = 3
	StatusAccountExists   = 4
	StatusBadRequest      = 5
	// StatusOtpRequired and StatusInvalidOtp extend the base status-code
	// table with the two-factor challenge/response the base spec describes
	// in prose but does not assign codes to.
	StatusOtpRequired = 6
	StatusInvalidOtp  = 7
)

type response struct {
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message,omitempty"`
	Results    json.RawMessage `json:"results,omitempty"`
}

// Client speaks the account-server wire protocol over HTTPS.
type Client struct {
	http *resty.Client
}

// New constructs a Client against baseURL with the given per-request
// timeout. baseURL is normalized (scheme defaulted to https, trailing slash
// trimmed).
func New(baseURL string, timeout time.Duration) (*Client, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, fmt.Errorf("serverclient: %w", err)
	}

	c := resty.New().
		SetBaseURL(normalized).
		SetTimeout(timeout)

	return &Client{http: c}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty server base URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("server base URL must include scheme and host")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

func mapStatusCode(op string, code int, message string) error {
	switch code {
	case StatusSuccess:
		return nil
	case StatusNoAccount:
		return walleterr.New(op, walleterr.AccountDoesNotExist, fmt.Errorf("%s", message))
	case StatusInvalidPassword:
		return walleterr.New(op, walleterr.BadPassword, fmt.Errorf("%s", message))
	case StatusAccountExists:
		return walleterr.New(op, walleterr.AccountAlreadyExists, fmt.Errorf("%s", message))
	case StatusBadRequest:
		return walleterr.New(op, walleterr.Server, fmt.Errorf("%s", message))
	case StatusOtpRequired:
		return walleterr.New(op, walleterr.OtpRequired, fmt.Errorf("%s", message))
	case StatusInvalidOtp:
		return walleterr.New(op, walleterr.OtpMismatch, fmt.Errorf("%s", message))
	case StatusGeneralError:
		return walleterr.New(op, walleterr.Server, fmt.Errorf("%s", message))
	default:
		return walleterr.New(op, walleterr.Server, fmt.Errorf("unrecognized status code %d: %s", code, message))
	}
}

func (c *Client) post(ctx context.Context, op, path string, body any) (response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return response{}, walleterr.New(op, walleterr.NetworkError, err)
	}

	var r response
	if err := json.Unmarshal(resp.Body(), &r); err != nil {
		return response{}, walleterr.New(op, walleterr.Server, fmt.Errorf("malformed response: %w", err))
	}
	if err := mapStatusCode(op, r.StatusCode, r.Message); err != nil {
		return r, err
	}
	return r, nil
}

// CreateRequest is the body of the create endpoint.
type CreateRequest struct {
	L1           string `json:"l1"`
	P1           string `json:"p1"`
	CarePackage  string `json:"care_package"`
	LoginPackage string `json:"login_package"`
	SyncKey      string `json:"repo_account_key"`
}

// Create registers a new account. carePackageJSON/loginPackageJSON are the
// raw package bodies (CarePackage.MarshalCreate() / LoginPackage.MarshalCreate()).
func (c *Client) Create(ctx context.Context, l1, p1 []byte, carePackageJSON, loginPackageJSON []byte, syncKey []byte) error {
	req := CreateRequest{
		L1:           cryptoprim.Base64Encode(l1),
		P1:           cryptoprim.Base64Encode(p1),
		CarePackage:  string(carePackageJSON),
		LoginPackage: string(loginPackageJSON),
		SyncKey:      cryptoprim.Base16Encode(syncKey),
	}
	_, err := c.post(ctx, "create", "/account/create", req)
	return err
}

// Activated reports whether the account identified by l1 has completed
// activation.
func (c *Client) Activated(ctx context.Context, l1 []byte) (bool, error) {
	req := struct {
		L1 string `json:"l1"`
	}{L1: cryptoprim.Base64Encode(l1)}

	resp, err := c.post(ctx, "activated?", "/account/activated", req)
	if err != nil {
		return false, err
	}

	var results struct {
		Activated bool `json:"activated"`
	}
	if len(resp.Results) > 0 {
		if err := json.Unmarshal(resp.Results, &results); err != nil {
			return false, walleterr.New("activated?", walleterr.Server, err)
		}
	}
	return results.Activated, nil
}

// GetCarePackage fetches the Care Package JSON body for l1.
func (c *Client) GetCarePackage(ctx context.Context, l1 []byte) (string, error) {
	req := struct {
		L1 string `json:"l1"`
	}{L1: cryptoprim.Base64Encode(l1)}

	resp, err := c.post(ctx, "getCarePackage", "/account/carepackage/get", req)
	if err != nil {
		return "", err
	}

	var results struct {
		CarePackage string `json:"care_package"`
	}
	if err := json.Unmarshal(resp.Results, &results); err != nil {
		return "", walleterr.New("getCarePackage", walleterr.Server, err)
	}
	return results.CarePackage, nil
}

// GetLoginPackage fetches the Login Package JSON body for l1, authenticated
// with either the password token p1 or the recovery token lra1 (exactly one
// must be non-nil). otp is an optional 6-digit TOTP code resubmitted after an
// OtpRequired challenge.
func (c *Client) GetLoginPackage(ctx context.Context, l1, p1, lra1 []byte, otp string) (string, error) {
	req := struct {
		L1   string `json:"l1"`
		P1   string `json:"p1,omitempty"`
		LRA1 string `json:"lra1,omitempty"`
		Otp  string `json:"otp,omitempty"`
	}{L1: cryptoprim.Base64Encode(l1), Otp: otp}

	if p1 != nil {
		req.P1 = cryptoprim.Base64Encode(p1)
	}
	if lra1 != nil {
		req.LRA1 = cryptoprim.Base64Encode(lra1)
	}

	resp, err := c.post(ctx, "getLoginPackage", "/account/loginpackage/get", req)
	if err != nil {
		return "", err
	}

	var results struct {
		LoginPackage string `json:"login_package"`
	}
	if err := json.Unmarshal(resp.Results, &results); err != nil {
		return "", walleterr.New("getLoginPackage", walleterr.Server, err)
	}
	return results.LoginPackage, nil
}

// SetRecovery publishes a new Care Package (with a fresh ERQ) and the
// current Login Package, authenticated with p1 and optionally the prior
// lra1.
func (c *Client) SetRecovery(ctx context.Context, l1, p1, lra1 []byte, carePackageJSON, loginPackageJSON []byte) error {
	req := struct {
		L1           string `json:"l1"`
		P1           string `json:"p1"`
		LRA1         string `json:"lra1,omitempty"`
		CarePackage  string `json:"care_package"`
		LoginPackage string `json:"login_package"`
	}{
		L1:           cryptoprim.Base64Encode(l1),
		P1:           cryptoprim.Base64Encode(p1),
		CarePackage:  string(carePackageJSON),
		LoginPackage: string(loginPackageJSON),
	}
	if lra1 != nil {
		req.LRA1 = cryptoprim.Base64Encode(lra1)
	}

	_, err := c.post(ctx, "setRecovery", "/account/upload_carepackage", req)
	return err
}

// ChangePassword authenticates with oldP1 or lra1 (exactly one non-nil) and
// publishes newP1 and the re-encrypted Login Package.
func (c *Client) ChangePassword(ctx context.Context, l1, oldP1, lra1, newP1 []byte, loginPackageJSON []byte) error {
	req := struct {
		L1           string `json:"l1"`
		P1           string `json:"p1,omitempty"`
		LRA1         string `json:"lra1,omitempty"`
		NewP1        string `json:"new_p1"`
		LoginPackage string `json:"login_package"`
	}{
		L1:           cryptoprim.Base64Encode(l1),
		NewP1:        cryptoprim.Base64Encode(newP1),
		LoginPackage: string(loginPackageJSON),
	}
	if oldP1 != nil {
		req.P1 = cryptoprim.Base64Encode(oldP1)
	}
	if lra1 != nil {
		req.LRA1 = cryptoprim.Base64Encode(lra1)
	}

	_, err := c.post(ctx, "changePassword", "/account/password/update", req)
	return err
}

// UploadOtp installs a new base32-encoded TOTP seed on the server.
func (c *Client) UploadOtp(ctx context.Context, l1, p1 []byte, otpBase32 string) error {
	req := struct {
		L1  string `json:"l1"`
		P1  string `json:"p1"`
		Otp string `json:"otp"`
	}{
		L1:  cryptoprim.Base64Encode(l1),
		P1:  cryptoprim.Base64Encode(p1),
		Otp: otpBase32,
	}

	_, err := c.post(ctx, "uploadOtp", "/account/otp/update", req)
	return err
}
