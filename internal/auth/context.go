// Package auth owns the signed-in state of the application. A Context is
// created once in main and handed to every command and view that needs the
// current user.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/devlingo/devlingo/internal/domain"
	"github.com/devlingo/devlingo/internal/logger"
	"github.com/devlingo/devlingo/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// Listener is notified after every sign-in or sign-out. user is nil when
// signed out.
type Listener func(user *domain.User)

type Option func(*Context)

func WithSessionTTL(ttl time.Duration) Option {
	return func(c *Context) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithSecret fixes the token signing secret instead of the per-database one.
func WithSecret(secret string) Option {
	return func(c *Context) { c.secret = secret }
}

func WithClock(now func() time.Time) Option {
	return func(c *Context) { c.now = now }
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(c *Context) { c.cost = cost }
}

type Context struct {
	users    repository.UserRepo
	sessions repository.AuthSessionRepo
	settings repository.SettingsRepo
	progress repository.ProgressRepo
	log      *logger.Logger

	ttl    time.Duration
	secret string
	now    func() time.Time
	cost   int

	mu        sync.RWMutex
	tokens    *tokenIssuer
	user      *domain.User
	listeners map[int]Listener
	nextID    int
}

func New(
	users repository.UserRepo,
	sessions repository.AuthSessionRepo,
	settings repository.SettingsRepo,
	progress repository.ProgressRepo,
	log *logger.Logger,
	opts ...Option,
) *Context {
	if log == nil {
		log = logger.NewNop()
	}
	c := &Context{
		users:     users,
		sessions:  sessions,
		settings:  settings,
		progress:  progress,
		log:       log.Named("auth"),
		ttl:       defaultSessionTTL,
		now:       func() time.Time { return time.Now().UTC() },
		cost:      bcrypt.DefaultCost,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init restores the persisted session. A missing, expired or unverifiable
// session leaves the context signed out; stale rows are removed.
func (c *Context) Init(ctx context.Context) error {
	if err := c.ensureTokens(ctx); err != nil {
		return err
	}

	s, err := c.sessions.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		c.setUser(nil)
		return nil
	}
	if err != nil {
		c.setUser(nil)
		return fmt.Errorf("loading session: %w", err)
	}

	user, reason := c.restore(ctx, s)
	if user == nil {
		c.log.Info("discarding stored session", "reason", reason)
		if err := c.sessions.Delete(ctx); err != nil {
			c.log.Warn("deleting stale session failed", "error", err)
		}
		c.setUser(nil)
		return nil
	}
	c.setUser(user)
	return nil
}

func (c *Context) restore(ctx context.Context, s *domain.AuthSession) (*domain.User, string) {
	if s.Expired(c.now()) {
		return nil, "expired"
	}
	userID, err := c.tokens.verify(s.Token)
	if err != nil {
		return nil, err.Error()
	}
	if userID != s.UserID {
		return nil, "subject mismatch"
	}
	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err.Error()
	}
	return user, ""
}

// CurrentUser returns the signed-in user's id.
func (c *Context) CurrentUser(_ context.Context) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return "", false
	}
	return c.user.ID, true
}

// User returns a copy of the signed-in user, or nil.
func (c *Context) User() *domain.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// OnAuthChange registers fn and returns a func that unregisters it.
// Calling the returned func more than once is harmless.
func (c *Context) OnAuthChange(fn Listener) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.listeners, id)
			c.mu.Unlock()
		})
	}
}

// SignUp validates the form, creates the user and signs them in.
func (c *Context) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.User, error) {
	if err := domain.ValidateSignUp(in); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(in.Email)

	if _, err := c.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking e-mail: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), c.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    c.now().Truncate(time.Second),
	}
	if err := c.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	c.log.Info("user signed up", "user_id", user.ID)

	if err := c.startSession(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn checks the credentials and persists a new session.
func (c *Context) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	if err := domain.ValidateSignIn(email, password); err != nil {
		return nil, err
	}
	user, err := c.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		c.log.Info("sign-in rejected", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	if err := c.startSession(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignOut clears the session. Local state is cleared even when the stored
// session cannot be deleted; that error is still returned.
func (c *Context) SignOut(ctx context.Context) error {
	err := c.sessions.Delete(ctx)
	if err != nil {
		c.log.Warn("deleting session failed", "error", err)
	}
	c.setUser(nil)
	return err
}

// UserXP returns the signed-in user's earned XP, or 0 when signed out or
// when the total cannot be read.
func (c *Context) UserXP(ctx context.Context) int {
	userID, ok := c.CurrentUser(ctx)
	if !ok {
		return 0
	}
	total, err := c.progress.SumXP(ctx, userID)
	if err != nil {
		c.log.Warn("reading user xp failed", "user_id", userID, "error", err)
		return 0
	}
	return total
}

// Close drops every listener. The context stays usable.
func (c *Context) Close() {
	c.mu.Lock()
	c.listeners = make(map[int]Listener)
	c.mu.Unlock()
}

func (c *Context) startSession(ctx context.Context, user *domain.User) error {
	if err := c.ensureTokens(ctx); err != nil {
		return err
	}
	token, expires, err := c.tokens.issue(user.ID, user.Email)
	if err != nil {
		return err
	}
	s := &domain.AuthSession{
		UserID:    user.ID,
		Token:     token,
		CreatedAt: c.now().Truncate(time.Second),
		ExpiresAt: expires.Truncate(time.Second),
	}
	if err := c.sessions.Save(ctx, s); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	c.log.Info("session started", "user_id", user.ID, "expires_at", s.ExpiresAt)
	c.setUser(user)
	return nil
}

func (c *Context) ensureTokens(ctx context.Context) error {
	c.mu.RLock()
	ready := c.tokens != nil
	c.mu.RUnlock()
	if ready {
		return nil
	}
	secret, err := loadSecret(ctx, c.settings, c.secret)
	if err != nil {
		return fmt.Errorf("loading session secret: %w", err)
	}
	c.mu.Lock()
	if c.tokens == nil {
		c.tokens = &tokenIssuer{secret: secret, ttl: c.ttl, now: c.now}
	}
	c.mu.Unlock()
	return nil
}

// setUser swaps the current user and notifies listeners when it changed.
func (c *Context) setUser(user *domain.User) {
	c.mu.Lock()
	prev := c.user
	c.user = user
	changed := (prev == nil) != (user == nil) || (prev != nil && user != nil && prev.ID != user.ID)
	var notify []Listener
	if changed {
		notify = make([]Listener, 0, len(c.listeners))
		for _, fn := range c.listeners {
			notify = append(notify, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range notify {
		if user == nil {
			fn(nil)
			continue
		}
		u := *user
		fn(&u)
	}
}
