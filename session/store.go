// Package session is the single source of truth for who is logged in. The
// Store persists the session so that it survives a restart, performs the one
// network call needed to log in, and tells interested views when the session
// changes.
package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/cares-session/authclient"
	"github.com/jrsteele09/cares-session/internal/errors"
	"github.com/jrsteele09/cares-session/internal/utils"
	"github.com/jrsteele09/cares-session/storage"
	"github.com/jrsteele09/cares-session/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const defaultLoginTimeout = 30 * time.Second

// Store owns the persisted and in-memory session. Nothing else may write to
// the session keys of its storage.
type Store struct {
	storage      storage.Store
	auth         authclient.Authenticator
	loginTimeout time.Duration

	// op is held for the whole of a login (including the network call) and
	// for a logout. Login only ever TryLocks it.
	op sync.Mutex

	mu          sync.RWMutex
	current     Session
	version     uint64 // bumped on every commit
	delivered   uint64 // last version handed to subscribers
	dispatching bool
	closed      bool
	subscribers map[int]*subscription
	nextSubID   int
}

// subscription serialises one callback against its unsubscribe.
type subscription struct {
	mu     sync.Mutex
	active bool
	fn     func(Session)
}

// Option defines a function type to modify the Store instance.
type Option func(*Store)

// WithLoginTimeout bounds the authentication call. It applies even when the
// caller stops waiting.
func WithLoginTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.loginTimeout = d
		}
	}
}

// New creates the store and initializes it from storage. No network I/O is
// performed and a missing or corrupt persisted session is not an error.
func New(store storage.Store, auth authclient.Authenticator, options ...Option) (*Store, error) {
	if store == nil {
		return nil, errors.New("[session.New] storage is required")
	}
	if auth == nil {
		return nil, errors.New("[session.New] authenticator is required")
	}

	s := &Store{
		storage:      store,
		auth:         auth,
		loginTimeout: defaultLoginTimeout,
		subscribers:  make(map[int]*subscription),
	}
	for _, opt := range options {
		opt(s)
	}
	s.current = s.initialize()
	return s, nil
}

func (s *Store) initialize() Session {
	access, _ := s.storage.Get(storage.KeyAccessToken)
	refresh, _ := s.storage.Get(storage.KeyRefreshToken)
	sess := Session{AccessToken: access, RefreshToken: refresh}

	if !sess.IsAuthenticated() {
		return Session{}
	}

	raw, ok := s.storage.Get(storage.KeyUser)
	if !ok || raw == "" {
		log.Warn().Msg("Stored session has a token but no user")
		return sess
	}
	var user users.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Warn().Err(err).Msg("Ignoring malformed stored user")
		return sess
	}
	if err := user.Validate(); err != nil {
		log.Warn().Err(err).Msg("Ignoring invalid stored user")
		return sess
	}
	sess.User = &user
	return sess
}

// Current returns the latest completed login or logout. It never blocks on
// an outstanding login.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

type loginResult struct {
	user *users.User
	err  error
}

// Login authenticates against the remote API and, on success, persists and
// publishes the new session. The returned user lets the caller branch on
// first login.
//
// A second Login while one is outstanding fails with ErrOperationInFlight.
// If ctx ends before the remote call resolves Login returns ctx.Err(), but
// the login still completes and is committed.
func (s *Store) Login(ctx context.Context, identifier, secret string) (*users.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || strings.TrimSpace(secret) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "[Login] identifier and secret are required")
	}
	if s.isClosed() {
		return nil, errors.ErrStoreClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.op.TryLock() {
		return nil, errors.ErrOperationInFlight
	}

	done := make(chan loginResult, 1)
	go func() {
		user, err := s.authenticateAndCommit(context.WithoutCancel(ctx), identifier, secret)
		s.op.Unlock()
		s.notifySubscribers()
		done <- loginResult{user: user, err: err}
	}()

	select {
	case res := <-done:
		return res.user, res.err
	case <-ctx.Done():
		log.Info().Str("identifier", identifier).Msg("Login caller went away; completing in background")
		return nil, ctx.Err()
	}
}

func (s *Store) authenticateAndCommit(ctx context.Context, identifier, secret string) (*users.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.loginTimeout)
	defer cancel()

	creds, err := s.auth.Authenticate(ctx, identifier, secret)
	if err != nil {
		return nil, errors.Wrapf(err, "[Login]")
	}
	if creds.Access == "" {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "[Login] missing access token")
	}
	if err := creds.User.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "[Login] %v", err)
	}

	next := Session{
		AccessToken:  creds.Access,
		RefreshToken: creds.Refresh,
		User:         utils.Ptr(creds.User),
	}

	prev := s.Current()
	if err := s.persist(next); err != nil {
		log.Error().Err(err).Msg("Failed to persist session; restoring previous state")
		s.restore(prev)
		return nil, errors.Wrapf(errors.ErrStorageUnavailable, "[Login] %v", err)
	}

	s.commit(next)
	log.Info().Str("user_id", next.User.ID).Str("role", next.User.Role().String()).Msg("Logged in")
	return utils.Ptr(creds.User), nil
}

// persist writes the access token last, since its presence is what marks
// the stored session as authenticated.
func (s *Store) persist(sess Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return errors.Wrapf(err, "marshal user")
	}
	if err := s.storage.Set(storage.KeyUser, string(userJSON)); err != nil {
		return err
	}
	if sess.RefreshToken == "" {
		if err := s.storage.Delete(storage.KeyRefreshToken); err != nil {
			return err
		}
	} else if err := s.storage.Set(storage.KeyRefreshToken, sess.RefreshToken); err != nil {
		return err
	}
	return s.storage.Set(storage.KeyAccessToken, sess.AccessToken)
}

func (s *Store) restore(prev Session) {
	if !prev.IsAuthenticated() {
		s.clearStorage()
		return
	}
	if err := s.persist(prev); err != nil {
		log.Error().Err(err).Msg("Failed to restore previous session; clearing storage")
		s.clearStorage()
		s.commit(Session{})
	}
}

// Logout clears the session. It always succeeds; storage errors are logged.
// An outstanding login is allowed to settle first, so the result is always
// logged out.
func (s *Store) Logout() {
	s.op.Lock()
	s.clearStorage()
	s.commit(Session{})
	s.op.Unlock()

	log.Info().Msg("Logged out")
	s.notifySubscribers()
}

func (s *Store) clearStorage() {
	for _, key := range storage.SessionKeys {
		if err := s.storage.Delete(key); err != nil {
			log.Error().Err(err).Str("key", key).Msg("Failed to clear session storage")
		}
	}
}

// commit swaps the in-memory snapshot. Callers hold op; subscribers are
// notified separately once op is released.
func (s *Store) commit(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = sess
	s.version++
}

// notifySubscribers delivers the latest committed snapshot. Callbacks run
// with no store lock held, so they may call Login, Logout or Close. Only one
// goroutine dispatches at a time; a commit made while it is dispatching
// (including one made by a callback) is picked up by its next pass rather
// than delivered recursively.
func (s *Store) notifySubscribers() {
	s.mu.Lock()
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if s.version == s.delivered {
			s.dispatching = false
			s.mu.Unlock()
			return
		}
		s.delivered = s.version
		sess := s.current
		ids := make([]int, 0, len(s.subscribers))
		for id := range s.subscribers {
			ids = append(ids, id)
		}
		s.mu.Unlock()

		sort.Ints(ids)
		for _, id := range ids {
			s.mu.RLock()
			sub, ok := s.subscribers[id]
			s.mu.RUnlock()
			if ok {
				sub.deliver(sess.clone())
			}
		}
	}
}

func (sub *subscription) deliver(sess Session) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.active {
		sub.fn(sess)
	}
}

// Subscribe registers fn to be called after every login and logout. Once the
// returned function has returned, fn is never called again. fn must not call
// its own unsubscribe function.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || fn == nil {
		return func() {}
	}
	id := s.nextSubID
	s.nextSubID++
	sub := &subscription{active: true, fn: fn}
	s.subscribers[id] = sub

	return func() {
		sub.mu.Lock()
		sub.active = false
		sub.mu.Unlock()

		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Close disposes of the store: subscribers are dropped and later logins are
// rejected. Current and Logout keep working, and a login already under way
// is still committed. A callback already running when Close is called is
// allowed to finish.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subscribers = make(map[int]*subscription)
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// TokenSource yields the access token of the current session, and fails
// with ErrNotAuthenticated when there is none. It is read on every call so a
// logout takes effect immediately.
func (s *Store) TokenSource() oauth2.TokenSource {
	return sessionTokenSource{store: s}
}

// HTTPClient returns a client for the CARES resource endpoints that sends
// the current access token as a bearer token.
func (s *Store) HTTPClient() *http.Client {
	return &http.Client{
		Transport: &oauth2.Transport{Source: s.TokenSource()},
	}
}

type sessionTokenSource struct {
	store *Store
}

func (ts sessionTokenSource) Token() (*oauth2.Token, error) {
	sess := ts.store.Current()
	if !sess.IsAuthenticated() {
		return nil, errors.ErrNotAuthenticated
	}
	token := &oauth2.Token{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		TokenType:    "Bearer",
	}
	if exp, ok := sess.ExpiresAt(); ok {
		token.Expiry = exp
	}
	return token, nil
}
