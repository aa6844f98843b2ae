package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/btech-hub/backend/internal/config"
	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/repository"
	"github.com/btech-hub/backend/pkg/auth"
	"github.com/btech-hub/backend/pkg/hash"
)

var testNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testNow}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// seqGenerator hands out 000001, 000002, ... so tests can predict codes.
type seqGenerator struct {
	mu  sync.Mutex
	n   int
	err error
}

func (g *seqGenerator) Generate() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.n++
	return fmt.Sprintf("%06d", g.n), nil
}

type sentMessage struct {
	Email   string
	Code    string
	Purpose domain.CodePurpose
}

type recordingNotifier struct {
	mu   sync.Mutex
	fail error
	sent []sentMessage
}

func (n *recordingNotifier) Send(_ context.Context, email, code string, purpose domain.CodePurpose) Delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return Delivery{Sent: false, Err: n.fail}
	}
	n.sent = append(n.sent, sentMessage{Email: email, Code: code, Purpose: purpose})
	return Delivery{Sent: true}
}

func (n *recordingNotifier) Sent() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

// memCodes mirrors the SQL repository semantics, including the conditional MarkUsed.
type memCodes struct {
	mu   sync.Mutex
	rows []domain.VerificationCode
}

func (m *memCodes) Insert(_ context.Context, code *domain.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *code)
	return nil
}

func (m *memCodes) FindValid(_ context.Context, email string, purpose domain.CodePurpose, code string, now time.Time) (*domain.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found []domain.VerificationCode
	for _, row := range m.rows {
		if row.Email == email && row.Purpose == purpose && row.Code == code && row.Consumable(now) {
			found = append(found, row)
		}
	}
	if len(found) == 0 {
		return nil, domain.ErrNotFound
	}
	sort.Slice(found, func(i, j int) bool { return found[i].CreatedAt.After(found[j].CreatedAt) })
	return &found[0], nil
}

func (m *memCodes) MarkUsed(_ context.Context, id uuid.UUID, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id && m.rows[i].Consumable(now) {
			m.rows[i].Used = true
			usedAt := now
			m.rows[i].UsedAt = &usedAt
			return nil
		}
	}
	return domain.ErrNoRowsAffected
}

func (m *memCodes) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var removed int64
	for _, row := range m.rows {
		if now.Before(row.ExpiresAt) {
			kept = append(kept, row)
			continue
		}
		removed++
	}
	m.rows = kept
	return removed, nil
}

func (m *memCodes) InvalidateActive(_ context.Context, email string, purpose domain.CodePurpose, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.rows {
		if m.rows[i].Email == email && m.rows[i].Purpose == purpose && m.rows[i].Consumable(now) {
			m.rows[i].Used = true
			usedAt := now
			m.rows[i].UsedAt = &usedAt
			n++
		}
	}
	return n, nil
}

func (m *memCodes) All() []domain.VerificationCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.VerificationCode(nil), m.rows...)
}

type memUsers struct {
	mu        sync.Mutex
	byEmail   map[string]*domain.User
	createErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: make(map[string]*domain.User)}
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return domain.ErrDuplicateEntry
	}
	u := *user
	m.byEmail[user.Email] = &u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetOneByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byEmail {
		if u.ID == id {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return domain.ErrNotFound
}

type memSessions struct {
	mu       sync.Mutex
	sessions []domain.RefreshSession
}

func (m *memSessions) Create(_ context.Context, session *domain.RefreshSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, *session)
	return nil
}

func (m *memSessions) GetByToken(_ context.Context, refreshToken uuid.UUID) (*domain.RefreshSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, session := range m.sessions {
		if session.RefreshToken == refreshToken {
			found := session
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSessions) DeleteByToken(_ context.Context, refreshToken uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, session := range m.sessions {
		if session.RefreshToken == refreshToken {
			m.sessions = append(m.sessions[:i], m.sessions[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memPending struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.PendingSignup
}

func newMemPending() *memPending {
	return &memPending{items: make(map[uuid.UUID]domain.PendingSignup)}
}

func (m *memPending) Save(_ context.Context, pending *domain.PendingSignup, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[pending.ID] = *pending
	return nil
}

func (m *memPending) Get(_ context.Context, id uuid.UUID) (*domain.PendingSignup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *memPending) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// Clear drops every payload, like a user losing the in-flight attempt.
func (m *memPending) Clear() {
	m.mu.Lock()
	m.items = make(map[uuid.UUID]domain.PendingSignup)
	m.mu.Unlock()
}

func testConfig() *config.Config {
	return &config.Config{
		Env: config.EnvLocal,
		Auth: config.AuthConfig{
			JWT: config.JWTConfig{
				AccessTokenTTL:  15 * time.Minute,
				RefreshTokenTTL: 240 * time.Hour,
				SigningKey:      "test-signing-key",
			},
			VerificationCodeLength: 6,
			PasswordMinLength:      8,
		},
		OTP: config.OTPConfig{
			TTL:          10 * time.Minute,
			DebugCode:    config.DebugCodeOnFailure,
			PurgeTimeout: 250 * time.Millisecond,
		},
		Signup: config.SignupConfig{
			PendingTTL:     30 * time.Minute,
			ResendCooldown: 60 * time.Second,
		},
	}
}

type testEnv struct {
	cfg       *config.Config
	clock     *fakeClock
	codes     *memCodes
	users     *memUsers
	sessions  *memSessions
	pending   *memPending
	notifier  *recordingNotifier
	generator *seqGenerator
	hasher    *hash.BcryptHasher
	services  *Services
}

func newTestEnv(t *testing.T, opts ...func(*config.Config)) *testEnv {
	t.Helper()

	cfg := testConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	require.NoError(t, err)

	env := &testEnv{
		cfg:       cfg,
		clock:     newFakeClock(),
		codes:     &memCodes{},
		users:     newMemUsers(),
		sessions:  &memSessions{},
		pending:   newMemPending(),
		notifier:  &recordingNotifier{},
		generator: &seqGenerator{},
		hasher:    hash.NewBcryptHasher(bcrypt.MinCost),
	}

	env.services = NewServices(Deps{
		Config:       cfg,
		Hasher:       env.hasher,
		TokenManager: tokenManager,
		OtpGenerator: env.generator,
		Notifier:     env.notifier,
		Repos: &repository.Repositories{
			VerificationCodes: env.codes,
			Users:             env.users,
			RefreshSession:    env.sessions,
			PendingSignups:    env.pending,
		},
		Clock: env.clock.Now,
	})

	return env
}

// stored returns the persisted row for code.
func (e *testEnv) stored(t *testing.T, code string) domain.VerificationCode {
	t.Helper()
	for _, row := range e.codes.All() {
		if row.Code == code {
			return row
		}
	}
	require.FailNow(t, "code not stored", code)
	return domain.VerificationCode{}
}

func lastCode(t *testing.T, n *recordingNotifier) string {
	t.Helper()
	sent := n.Sent()
	require.NotEmpty(t, sent)
	return sent[len(sent)-1].Code
}

var errSMTPDown = errors.New("dial tcp: connection refused")

func withDebugCode(policy string) func(*config.Config) {
	return func(cfg *config.Config) { cfg.OTP.DebugCode = policy }
}

func withInvalidatePrevious() func(*config.Config) {
	return func(cfg *config.Config) { cfg.OTP.InvalidatePrevious = true }
}
