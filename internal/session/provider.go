package session

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Provider holds the live session of an AuthClient. It starts in the loading
// state and leaves it after the first session lookup or auth event.
type Provider struct {
	client    AuthClient
	installer AgentInstaller
	log       *zap.Logger

	mu      sync.RWMutex
	session *Session
	user    *User
	loading bool
	synced  bool
	install *InstallTask
	sub     Subscription
	closed  bool

	bg     context.Context
	cancel context.CancelFunc
	tasks  sync.WaitGroup
}

// NewProvider wraps client. installer may be nil, in which case sign-ins do
// not provision anything.
func NewProvider(client AuthClient, installer AgentInstaller, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	bg, cancel := context.WithCancel(context.Background())
	return &Provider{
		client:    client,
		installer: installer,
		log:       logger,
		loading:   true,
		bg:        bg,
		cancel:    cancel,
	}
}

// Start subscribes to auth-state changes and loads the current session.
// Lookup failures leave the provider signed out; they are logged, not returned.
func (p *Provider) Start(ctx context.Context) {
	sub := p.client.OnAuthStateChange(p.handle)
	p.mu.Lock()
	p.sub = sub
	p.mu.Unlock()

	current, err := p.client.GetSession(ctx)
	if err != nil {
		p.log.Info("auth session not available, continuing without authentication", zap.Error(err))
		current = nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// An event that arrived while the lookup was in flight is newer.
	if !p.synced {
		p.replace(current)
	}
	p.loading = false
}

// Close stops following auth events and waits for background installs.
func (p *Provider) Close() {
	p.mu.Lock()
	sub := p.sub
	p.sub = nil
	p.closed = true
	p.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
	p.cancel()
	p.tasks.Wait()
}

func (p *Provider) handle(_ context.Context, event AuthEvent, s *Session) {
	p.mu.Lock()
	p.replace(s)
	p.synced = true
	p.loading = false
	p.mu.Unlock()

	p.log.Debug("auth state changed", zap.String("event", string(event)))

	switch event {
	case SignedIn:
		if s != nil && s.User != nil {
			p.startInstall(*s.User)
		}
	case SignedOut, TokenRefreshed, MFAChallengeVerified:
	default:
		p.log.Debug("unhandled auth event", zap.String("event", string(event)))
	}
}

// replace swaps session and user wholesale. Callers hold p.mu.
func (p *Provider) replace(s *Session) {
	p.session = s
	p.user = nil
	if s != nil {
		p.user = s.User
	}
}

func (p *Provider) startInstall(user User) {
	if p.installer == nil {
		return
	}
	task := newInstallTask(user.ID)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.install = task
	p.tasks.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.tasks.Done()
		task.run(p.bg, func(ctx context.Context) error {
			return p.installer.InstallDefaultAgent(ctx, user.ID, user.CreatedAt)
		})
		if err := task.Err(); err != nil {
			p.log.Warn("failed to install default agent",
				zap.String("task_id", task.ID), zap.String("user_id", user.ID), zap.Error(err))
			return
		}
		p.log.Info("default agent installed", zap.String("task_id", task.ID), zap.String("user_id", user.ID))
	}()
}

// State returns the current session, user and loading flag.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return State{Session: p.session, User: p.user, IsLoading: p.loading}
}

// GetSession returns the current session, nil when signed out.
func (p *Provider) GetSession(context.Context) (*Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session, nil
}

// InstallTask returns the most recent default-agent install, nil if no
// sign-in has triggered one.
func (p *Provider) InstallTask() *InstallTask {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.install
}

// SignOut asks the auth service to end the session. Failures are logged only;
// the resulting SIGNED_OUT event updates the state.
func (p *Provider) SignOut(ctx context.Context) {
	if err := p.client.SignOut(ctx); err != nil {
		p.log.Error("error signing out", zap.Error(err))
	}
}

type providerKey struct{}

// WithProvider scopes p to ctx and everything derived from it.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, providerKey{}, p)
}

// FromContext returns the provider in scope, if any.
func FromContext(ctx context.Context) (*Provider, bool) {
	p, ok := ctx.Value(providerKey{}).(*Provider)
	return p, ok && p != nil
}

// StateFromContext returns the state of the provider in scope. Outside a
// provider scope it reports false with a zero State: no session, no user,
// not loading.
func StateFromContext(ctx context.Context) (State, bool) {
	p, ok := FromContext(ctx)
	if !ok {
		return State{}, false
	}
	return p.State(), true
}
