// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package serverclient

import "context"

//go:generate mockgen -source=transport.go -destination=../mock/server_transport_mock.go -package=mock

// Transport is the wire-protocol surface LoginOrchestrator depends on. *Client
// is the production implementation; internal/mock carries a hand-authored
// gomock double so orchestrator tests never open a socket.
type Transport interface {
	// Create registers a new account.
	Create(ctx context.Context, l1, p1, carePackageJSON, loginPackageJSON, syncKey []byte) error

	// Activated reports whether the account identified by l1 has completed
	// activation.
	Activated(ctx context.Context, l1 []byte) (bool, error)

	// GetCarePackage fetches the Care Package JSON body for l1.
	GetCarePackage(ctx context.Context, l1 []byte) (string, error)

	// GetLoginPackage fetches the Login Package JSON body for l1,
	// authenticated with p1 or lra1 (exactly one non-nil) and an optional
	// TOTP code resubmitted after an OtpRequired challenge.
	GetLoginPackage(ctx context.Context, l1, p1, lra1 []byte, otp string) (string, error)

	// SetRecovery publishes a new Care Package and the current Login
	// Package.
	SetRecovery(ctx context.Context, l1, p1, lra1, carePackageJSON, loginPackageJSON []byte) error

	// ChangePassword authenticates with oldP1 or lra1 and publishes newP1
	// and the re-encrypted Login Package.
	ChangePassword(ctx context.Context, l1, oldP1, lra1, newP1, loginPackageJSON []byte) error

	// UploadOtp installs a new base32-encoded TOTP seed on the server.
	UploadOtp(ctx context.Context, l1, p1 []byte, otpBase32 string) error
}

var _ Transport = (*Client)(nil)
