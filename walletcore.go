// Package walletcore is the library facade over the identity/key-management
// core: it wires internal/accountstore, internal/serverclient, and
// internal/orchestrator into a single Client and re-exports the few types
// callers outside this module need (Session, Settings, ErrorKind).
//
// cmd/walletcore is a thin CLI built directly on this facade; any other host
// process embeds walletcore the same way.
package walletcore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vaultwire/walletcore/internal/accountstore"
	"github.com/vaultwire/walletcore/internal/config"
	"github.com/vaultwire/walletcore/internal/logger"
	"github.com/vaultwire/walletcore/internal/orchestrator"
	"github.com/vaultwire/walletcore/internal/serverclient"
	"github.com/vaultwire/walletcore/internal/session"
	"github.com/vaultwire/walletcore/internal/settings"
	"github.com/vaultwire/walletcore/internal/walleterr"
)

// Session is the signed-in identity returned by Create/SignIn-family calls.
type Session = session.Session

// Settings is the decrypted per-account preferences record.
type Settings = settings.Settings

// ErrorKind is the closed taxonomy every operation's error is classified
// under; use walleterr.Is(err, kind) to test it.
type ErrorKind = walleterr.Kind

// Client is the library entry point: one Client binds one filesystem root
// and one account server for the lifetime of a process.
type Client struct {
	store *accountstore.Store
	orch  *orchestrator.Orchestrator
	log   *logger.Logger
}

// New constructs a Client from cfg. It does not perform any network I/O;
// serverclient.New only validates and normalizes cfg.ServerBaseURL.
func New(cfg *config.WalletCoreConfig) (*Client, error) {
	store := accountstore.New(cfg.FilesystemRoot)

	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = requestTimeoutDefault
	}
	server, err := serverclient.New(cfg.ServerBaseURL, timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		store: store,
		orch:  orchestrator.New(store, server),
		log:   logger.NewLogger("walletcore"),
	}, nil
}

// NewWithTransport builds a Client over an already-constructed Transport,
// bypassing serverclient.New. Production hosts use New; tests and
// alternative transports use this directly.
func NewWithTransport(root string, server serverclient.Transport) *Client {
	store := accountstore.New(root)
	return &Client{
		store: store,
		orch:  orchestrator.New(store, server),
		log:   logger.NewLogger("walletcore"),
	}
}

// opCtx derives a child logger carrying a fresh trace ID and attaches it to
// ctx, so every orchestrator log entry written during one operation is
// correlated. Downstream code retrieves it via logger.FromContext.
func (c *Client) opCtx(ctx context.Context) context.Context {
	l := c.log.GetChildLogger()
	l.UpdateContext(func(zc zerolog.Context) zerolog.Context {
		return zc.Str("trace_id", uuid.NewString())
	})
	return l.WithContext(ctx)
}

// CreateAccount registers username/password with the server and installs a
// Session for the freshly created account.
func (c *Client) CreateAccount(ctx context.Context, username, password string) (*Session, error) {
	return c.orch.Create(c.opCtx(ctx), username, password)
}

// SignIn authenticates username/password, resolving OTP challenges
// transparently from a locally installed OtpKey.json.
func (c *Client) SignIn(ctx context.Context, username, password string) (*Session, error) {
	return c.orch.SignIn(c.opCtx(ctx), username, password)
}

// SignInWithRecovery authenticates with recovery answers instead of a
// password, producing a recovery-limited Session.
func (c *Client) SignInWithRecovery(ctx context.Context, username, answers string) (*Session, error) {
	return c.orch.RecoverySignIn(c.opCtx(ctx), username, answers)
}

// FetchRecoveryQuestions returns the decrypted recovery-question text for
// username, without establishing a Session.
func (c *Client) FetchRecoveryQuestions(ctx context.Context, username string) (string, error) {
	return c.orch.FetchRecoveryQuestions(c.opCtx(ctx), username)
}

// CheckRecoveryAnswers reports whether answers are correct for username. It
// asks the server when online is true, otherwise it checks the local ELP2
// sidecar without any network access.
func (c *Client) CheckRecoveryAnswers(ctx context.Context, username, answers string, online bool) (bool, error) {
	if online {
		return c.orch.CheckRecoveryAnswersOnline(c.opCtx(ctx), username, answers)
	}
	return c.orch.CheckRecoveryAnswersOffline(username, answers)
}

// ChangePassword re-keys sess under newPassword. Requires an active Session.
func (c *Client) ChangePassword(ctx context.Context, sess *Session, newPassword string) error {
	return c.orch.ChangePassword(c.opCtx(ctx), sess, newPassword)
}

// SetRecovery installs or replaces sess's recovery questions/answers.
// Requires an active Session.
func (c *Client) SetRecovery(ctx context.Context, sess *Session, questions, answers string) error {
	return c.orch.SetRecovery(c.opCtx(ctx), sess, questions, answers)
}

// SetOtpKey generates and uploads a fresh TOTP seed and installs it locally.
// Requires an active Session.
func (c *Client) SetOtpKey(ctx context.Context, sess *Session) error {
	return c.orch.SetOtpKey(c.opCtx(ctx), sess)
}

// RemoveOtpKey deletes the local OtpKey.json sidecar. Requires an active
// Session.
func (c *Client) RemoveOtpKey(sess *Session) error {
	return c.orch.RemoveOtpKey(sess)
}

// LoadSettings reads and decrypts sess's Settings, defaulting if none has
// ever been saved.
func (c *Client) LoadSettings(sess *Session) (Settings, error) {
	return settings.Load(c.store, sess)
}

// SaveSettings validates, encrypts, and atomically persists s under sess.
func (c *Client) SaveSettings(sess *Session, s Settings) error {
	return settings.Save(c.store, sess, s)
}

// LoadCategories reads sess's cleartext transaction-category list, empty if
// never saved.
func (c *Client) LoadCategories(sess *Session) ([]string, error) {
	return settings.LoadCategories(c.store, sess)
}

// SaveCategories atomically persists sess's transaction-category list.
func (c *Client) SaveCategories(sess *Session, categories []string) error {
	return settings.SaveCategories(c.store, sess, categories)
}

// Logout zeroizes every key sess holds. sess must not be used afterward.
func (c *Client) Logout(sess *Session) {
	sess.Logout()
}

// ListAccounts returns the directory-form names (canonical usernames with
// spaces as underscores) of every account present under the filesystem root.
func (c *Client) ListAccounts() ([]string, error) {
	return c.store.List()
}

// DeleteAccount removes an account's local directory. It does not contact
// the server: server-side account deletion is out of scope (spec Non-goals).
func (c *Client) DeleteAccount(username string) error {
	return c.store.Delete(username)
}

// requestTimeoutDefault is the timeout New uses when cfg.RequestTimeout is
// zero. A config from config.GetWalletCoreConfig never has a zero timeout,
// since its validation rejects one.
const requestTimeoutDefault = 30 * time.Second
