package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults applied by New when the corresponding Config field is zero.
const (
	DefaultDomain     = "supabase.co"
	DefaultScheme     = "https"
	DefaultPath       = "/auth/v1"
	DefaultStorageKey = "gotrue.auth.token"
)

// Config configures a Client. APIKey is required; the base URL is either
// given directly via URL or assembled from ReferenceID, Domain, Scheme and
// Path.
type Config struct {
	// ReferenceID is the project reference forming the URL's host prefix.
	// Leave empty when the service is reachable at the bare domain.
	ReferenceID string

	// Domain, Scheme and Path default to "supabase.co", "https" and
	// "/auth/v1".
	Domain string
	Scheme string
	Path   string

	// URL overrides the assembled base URL entirely (e.g. for a local
	// GoTrue instance).
	URL string

	// APIKey is the anon key sent as the apikey header and as the default
	// bearer token. For the admin sub-client this must be the service key.
	APIKey string

	// AutoRefreshToken makes GetSession transparently refresh an expired
	// session. Default: true (set DisableAutoRefresh to turn it off).
	DisableAutoRefresh bool

	// PersistSession writes the session to Storage on every auth state
	// transition, keyed by StorageKey.
	PersistSession bool

	// StorageKey namespaces the persisted session. Default: "gotrue.auth.token".
	StorageKey string

	// DetectSessionInURL is consulted by SessionFromRedirectURL; when
	// false, redirect URL fragments are ignored.
	DetectSessionInURL bool

	// FlowType selects the redirect flow variant. Default: implicit.
	FlowType FlowType

	// HTTPClient overrides the transport. Default: 10 second timeout.
	HTTPClient *http.Client

	// Storage overrides the session store. Default: in-memory.
	Storage SessionStorage

	// Logger receives debug-level request logs. Default: discard.
	Logger *slog.Logger

	// RequestsPerSecond enables a client-side rate limiter when positive.
	RequestsPerSecond float64
}

// baseURL assembles the {scheme}://{ref}.{domain}{path} pattern, or
// {scheme}://{domain}{path} when no reference id is set.
func (c Config) baseURL() string {
	if c.URL != "" {
		return strings.TrimSuffix(c.URL, "/")
	}
	scheme := c.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}
	domain := c.Domain
	if domain == "" {
		domain = DefaultDomain
	}
	path := c.Path
	if path == "" {
		path = DefaultPath
	}
	if c.ReferenceID != "" {
		return fmt.Sprintf("%s://%s.%s%s", scheme, c.ReferenceID, domain, path)
	}
	return fmt.Sprintf("%s://%s%s", scheme, domain, path)
}

// Client is a client for a GoTrue authentication service. It orchestrates
// sign-up, sign-in, session refresh, password recovery, user management and
// assurance-level queries, and delegates privileged and factor operations to
// the Admin and MFA sub-clients.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger

	autoRefreshToken   bool
	persistSession     bool
	storageKey         string
	detectSessionInURL bool
	flowType           FlowType
	storage            SessionStorage

	sessionMu      sync.RWMutex
	currentSession *Session

	subscribersMu sync.RWMutex
	subscribers   map[string]AuthChangeFunc

	// Admin exposes privileged operations. These require the client to be
	// constructed with a service-level key, never the anon key.
	Admin *AdminClient

	// MFA exposes factor enrollment, challenge, verify and unenroll.
	MFA *MFAClient
}

// New creates a Client from cfg. It fails when no API key is configured or
// no base URL can be assembled.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, NewValidationError("no API key provided")
	}
	baseURL := cfg.baseURL()
	if baseURL == "" {
		return nil, NewValidationError("no URL provided")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	storage := cfg.Storage
	if storage == nil {
		storage = NewMemoryStorage()
	}

	storageKey := cfg.StorageKey
	if storageKey == "" {
		storageKey = DefaultStorageKey
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	flowType := cfg.FlowType
	if flowType == "" {
		flowType = FlowTypeImplicit
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	c := &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger,

		autoRefreshToken:   !cfg.DisableAutoRefresh,
		persistSession:     cfg.PersistSession,
		storageKey:         storageKey,
		detectSessionInURL: cfg.DetectSessionInURL,
		flowType:           flowType,
		storage:            storage,

		subscribers: make(map[string]AuthChangeFunc),
	}
	c.Admin = &AdminClient{client: c}
	c.MFA = &MFAClient{client: c}

	return c, nil
}

// ============================================================================
// Session State
// ============================================================================

// GetSession returns the current session, loading it from storage if needed.
// When the session has expired and auto refresh is enabled, it is refreshed
// transparently. Returns a SessionMissingError when no session exists.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	session, err := c.loadSession()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, &SessionMissingError{}
	}

	if session.Expired() && c.autoRefreshToken {
		return c.callRefreshToken(ctx, session.RefreshToken)
	}

	return session, nil
}

// loadSession returns the in-memory session, falling back to storage when
// session persistence is enabled. A nil session with nil error means no
// session is known.
func (c *Client) loadSession() (*Session, error) {
	c.sessionMu.RLock()
	session := c.currentSession
	c.sessionMu.RUnlock()
	if session != nil {
		return session, nil
	}

	if !c.persistSession {
		return nil, nil
	}

	raw, ok, err := c.storage.Get(c.storageKey)
	if err != nil {
		return nil, fmt.Errorf("gotrue: failed to load session from storage: %w", err)
	}
	if !ok {
		return nil, nil
	}

	session = &Session{}
	if err := json.Unmarshal([]byte(raw), session); err != nil {
		return nil, fmt.Errorf("gotrue: failed to decode stored session: %w", err)
	}

	c.sessionMu.Lock()
	c.currentSession = session
	c.sessionMu.Unlock()

	return session, nil
}

// saveSession replaces the current session wholesale and persists it when
// session persistence is enabled.
func (c *Client) saveSession(session *Session) error {
	if session.ExpiresAt == 0 && session.ExpiresIn > 0 {
		session.ExpiresAt = time.Now().Unix() + session.ExpiresIn
	}

	c.sessionMu.Lock()
	c.currentSession = session
	c.sessionMu.Unlock()

	if !c.persistSession {
		return nil
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("gotrue: failed to encode session: %w", err)
	}
	if err := c.storage.Set(c.storageKey, string(raw)); err != nil {
		return fmt.Errorf("gotrue: failed to persist session: %w", err)
	}
	return nil
}

// removeSession clears the in-memory session and the persisted copy.
func (c *Client) removeSession() error {
	c.sessionMu.Lock()
	c.currentSession = nil
	c.sessionMu.Unlock()

	if !c.persistSession {
		return nil
	}
	if err := c.storage.Remove(c.storageKey); err != nil {
		return fmt.Errorf("gotrue: failed to clear persisted session: %w", err)
	}
	return nil
}

// resolveToken returns jwt unchanged when non-empty, otherwise the current
// session's access token. Errors from the session lookup surface before any
// network call is made for the primary operation.
func (c *Client) resolveToken(ctx context.Context, jwt string) (string, error) {
	if jwt != "" {
		return jwt, nil
	}
	session, err := c.GetSession(ctx)
	if err != nil {
		return "", err
	}
	return session.AccessToken, nil
}
