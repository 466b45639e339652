package featureflags

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"emma-client/internal/cache"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTTL     = 5 * time.Minute
	DefaultTimeout = 5 * time.Second

	aggregateKey = "all"
)

var (
	ErrNoBaseURL   = errors.New("featureflags: backend URL not configured")
	ErrUnavailable = errors.New("featureflags: backend unavailable")
	ErrNonJSON     = errors.New("featureflags: non-JSON response")
	ErrMalformed   = errors.New("featureflags: malformed response")
)

// Options configures a Manager. Zero values fall back to the package defaults.
type Options struct {
	// BaseURL of the backend, e.g. http://localhost:8000/api. Empty disables
	// remote lookups entirely.
	BaseURL    string
	Timeout    time.Duration
	TTL        time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Now        func() time.Time
}

// Manager resolves flags. Each Manager owns its caches; construct one per
// backend and pass it to consumers.
type Manager struct {
	baseURL string
	timeout time.Duration
	ttl     time.Duration
	client  *http.Client
	log     *zap.Logger

	// mu guards both caches so a full fetch lands as one update.
	mu    sync.RWMutex
	flags *cache.SimpleCache[string, bool]
	all   *cache.SimpleCache[string, map[string]bool]
}

func NewManager(opts Options) *Manager {
	m := &Manager{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: opts.Timeout,
		ttl:     opts.TTL,
		client:  opts.HTTPClient,
		log:     opts.Logger,
	}
	if m.timeout <= 0 {
		m.timeout = DefaultTimeout
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	if m.client == nil {
		m.client = http.DefaultClient
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	cacheOpts := cache.Options{ConcurrencySafe: false, Now: opts.Now}
	m.flags = cache.NewSimpleCache[string, bool](cacheOpts)
	m.all = cache.NewSimpleCache[string, map[string]bool](cacheOpts)
	return m
}

// IsEnabled reports whether a flag is on. It never fails: any backend
// problem resolves to the flag's static default.
func (m *Manager) IsEnabled(ctx context.Context, name string) bool {
	m.mu.RLock()
	v, ok := m.flags.Get(name)
	age, _ := m.flags.Age(name)
	m.mu.RUnlock()
	if ok {
		m.log.Debug("feature flag served from cache", zap.String("flag", name), zap.Duration("age", age))
		return v
	}

	if m.baseURL == "" {
		m.log.Info("no backend URL configured, using default for feature flag", zap.String("flag", name))
		return DefaultValue(name)
	}

	var flag Flag
	if err := m.get(ctx, flagPath(name), &flag); err != nil {
		m.log.Info("error checking feature flag, using default", zap.String("flag", name), zap.Error(err))
		return DefaultValue(name)
	}

	m.mu.Lock()
	m.flags.Set(name, flag.Enabled, m.ttl)
	m.mu.Unlock()
	return flag.Enabled
}

// GetFlagDetails returns the full record of a flag, or false when the backend
// cannot produce one. Without a backend URL it synthesizes a record from the
// default table.
func (m *Manager) GetFlagDetails(ctx context.Context, name string) (*Flag, bool) {
	if m.baseURL == "" {
		m.log.Info("no backend URL configured, using default for feature flag details", zap.String("flag", name))
		return &Flag{
			Name:    name,
			Enabled: DefaultValue(name),
			Details: &Details{
				Description: "Default value (backend unavailable)",
				UpdatedAt:   time.Now().UTC(),
			},
		}, true
	}

	var flag Flag
	if err := m.get(ctx, flagPath(name), &flag); err != nil {
		m.log.Info("error fetching feature flag details", zap.String("flag", name), zap.Error(err))
		return nil, false
	}
	return &flag, true
}

// GetAllFlags returns every flag the backend knows, or the default table on
// failure. The returned map is the caller's to modify.
func (m *Manager) GetAllFlags(ctx context.Context) map[string]bool {
	m.mu.RLock()
	snapshot, ok := m.all.Get(aggregateKey)
	m.mu.RUnlock()
	if ok {
		return maps.Clone(snapshot)
	}

	if m.baseURL == "" {
		m.log.Info("no backend URL configured, using default feature flags")
		return Defaults()
	}

	var resp AllFlagsResponse
	if err := m.get(ctx, "/feature-flags", &resp); err != nil {
		m.log.Info("error fetching all feature flags, using defaults", zap.Error(err))
		return Defaults()
	}
	if resp.Flags == nil {
		m.log.Info("feature flags response has no flags, using defaults")
		return Defaults()
	}

	m.mu.Lock()
	m.all.Set(aggregateKey, maps.Clone(resp.Flags), m.ttl)
	m.flags.SetAll(resp.Flags, m.ttl)
	m.mu.Unlock()

	return resp.Flags
}

// ClearCache drops every cached answer.
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags.Clear()
	m.all.Clear()
}

// InvalidateFlag drops one flag and the aggregate snapshot that includes it.
func (m *Manager) InvalidateFlag(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags.Delete(name)
	m.all.Delete(aggregateKey)
}

// PreloadFlags resolves every name concurrently and returns once all of them
// have settled. Failures already degrade to defaults inside IsEnabled.
func (m *Manager) PreloadFlags(ctx context.Context, names []string) {
	var g errgroup.Group
	for _, name := range names {
		g.Go(func() error {
			m.IsEnabled(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
}

func flagPath(name string) string {
	return "/feature-flags/" + url.PathEscape(name)
}

func (m *Manager) get(ctx context.Context, path string, out any) error {
	if m.baseURL == "" {
		return ErrNoBaseURL
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: HTTP %d", ErrUnavailable, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/json") {
		return fmt.Errorf("%w: %q", ErrNonJSON, ct)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
