// Mirrors: internal/serverclient/transport.go, in the output shape of
//
//	mockgen -source=internal/serverclient/transport.go -destination=internal/mock/server_transport_mock.go -package=mock
//

// Package mock carries hand-authored gomock doubles for walletcore's
// transport seam, kept in sync by hand with the interfaces they mirror
// rather than regenerated, since this module does not run the mockgen
// binary as part of its build.
package mock

import (
	context "context"
	reflect "reflect"

	gomock "go.uber.org/mock/gomock"
)

// MockServerTransport is a mock of the serverclient.Transport interface.
type MockServerTransport struct {
	ctrl     *gomock.Controller
	recorder *MockServerTransportMockRecorder
}

// MockServerTransportMockRecorder is the mock recorder for MockServerTransport.
type MockServerTransportMockRecorder struct {
	mock *MockServerTransport
}

// NewMockServerTransport creates a new mock instance.
func NewMockServerTransport(ctrl *gomock.Controller) *MockServerTransport {
	mock := &MockServerTransport{ctrl: ctrl}
	mock.recorder = &MockServerTransportMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockServerTransport) EXPECT() *MockServerTransportMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockServerTransport) Create(ctx context.Context, l1, p1, carePackageJSON, loginPackageJSON, syncKey []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, l1, p1, carePackageJSON, loginPackageJSON, syncKey)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockServerTransportMockRecorder) Create(ctx, l1, p1, carePackageJSON, loginPackageJSON, syncKey any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockServerTransport)(nil).Create), ctx, l1, p1, carePackageJSON, loginPackageJSON, syncKey)
}

// Activated mocks base method.
func (m *MockServerTransport) Activated(ctx context.Context, l1 []byte) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Activated", ctx, l1)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Activated indicates an expected call of Activated.
func (mr *MockServerTransportMockRecorder) Activated(ctx, l1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Activated", reflect.TypeOf((*MockServerTransport)(nil).Activated), ctx, l1)
}

// GetCarePackage mocks base method.
func (m *MockServerTransport) GetCarePackage(ctx context.Context, l1 []byte) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetCarePackage", ctx, l1)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetCarePackage indicates an expected call of GetCarePackage.
func (mr *MockServerTransportMockRecorder) GetCarePackage(ctx, l1 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetCarePackage", reflect.TypeOf((*MockServerTransport)(nil).GetCarePackage), ctx, l1)
}

// GetLoginPackage mocks base method.
func (m *MockServerTransport) GetLoginPackage(ctx context.Context, l1, p1, lra1 []byte, otp string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetLoginPackage", ctx, l1, p1, lra1, otp)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetLoginPackage indicates an expected call of GetLoginPackage.
func (mr *MockServerTransportMockRecorder) GetLoginPackage(ctx, l1, p1, lra1, otp any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetLoginPackage", reflect.TypeOf((*MockServerTransport)(nil).GetLoginPackage), ctx, l1, p1, lra1, otp)
}

// SetRecovery mocks base method.
func (m *MockServerTransport) SetRecovery(ctx context.Context, l1, p1, lra1, carePackageJSON, loginPackageJSON []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetRecovery", ctx, l1, p1, lra1, carePackageJSON, loginPackageJSON)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetRecovery indicates an expected call of SetRecovery.
func (mr *MockServerTransportMockRecorder) SetRecovery(ctx, l1, p1, lra1, carePackageJSON, loginPackageJSON any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetRecovery", reflect.TypeOf((*MockServerTransport)(nil).SetRecovery), ctx, l1, p1, lra1, carePackageJSON, loginPackageJSON)
}

// ChangePassword mocks base method.
func (m *MockServerTransport) ChangePassword(ctx context.Context, l1, oldP1, lra1, newP1, loginPackageJSON []byte) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ChangePassword", ctx, l1, oldP1, lra1, newP1, loginPackageJSON)
	ret0, _ := ret[0].(error)
	return ret0
}

// ChangePassword indicates an expected call of ChangePassword.
func (mr *MockServerTransportMockRecorder) ChangePassword(ctx, l1, oldP1, lra1, newP1, loginPackageJSON any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ChangePassword", reflect.TypeOf((*MockServerTransport)(nil).ChangePassword), ctx, l1, oldP1, lra1, newP1, loginPackageJSON)
}

// UploadOtp mocks base method.
func (m *MockServerTransport) UploadOtp(ctx context.Context, l1, p1 []byte, otpBase32 string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UploadOtp", ctx, l1, p1, otpBase32)
	ret0, _ := ret[0].(error)
	return ret0
}

// UploadOtp indicates an expected call of UploadOtp.
func (mr *MockServerTransportMockRecorder) UploadOtp(ctx, l1, p1, otpBase32 any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UploadOtp", reflect.TypeOf((*MockServerTransport)(nil).UploadOtp), ctx, l1, p1, otpBase32)
}
