//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"meditation-premium-service/internal/domain"
	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/domain/ports/repository"
)

// newTestLogger creates a silent zerolog.Logger for use in tests.
// It writes to io.Discard to prevent logs from cluttering test output.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// ---- TxManager mock ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs the function immediately without a real transaction unless a
// custom WithTxFunc is assigned.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

// ---- ActivationCode repository mock ----
//
// Backed by an in-memory map so concurrency tests exercise a real
// compare-and-set; individual funcs can be overridden per test.

type MockActivationCodeRepo struct {
	mu    sync.Mutex
	codes map[string]*model.ActivationCode // by digest

	SaveFunc         func(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error
	FindByDigestFunc func(ctx context.Context, tx repository.Tx, digest string) (*model.ActivationCode, error)
	RedeemFunc       func(ctx context.Context, tx repository.Tx, digest, userID string, at time.Time) error
	FindByUserFunc   func(ctx context.Context, tx repository.Tx, userID string) ([]*model.ActivationCode, error)
}

func NewMockActivationCodeRepo() *MockActivationCodeRepo {
	return &MockActivationCodeRepo{codes: make(map[string]*model.ActivationCode)}
}

var _ repository.ActivationCodeRepository = (*MockActivationCodeRepo)(nil)

func (m *MockActivationCodeRepo) Save(ctx context.Context, tx repository.Tx, code *model.ActivationCode) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.codes[code.CodeHash]; ok {
		return domain.ErrAlreadyExists
	}
	if code.ID == "" {
		code.ID = "code-" + code.CodeHash[:8]
	}
	cp := *code
	m.codes[code.CodeHash] = &cp
	return nil
}

func (m *MockActivationCodeRepo) FindByDigest(ctx context.Context, tx repository.Tx, digest string) (*model.ActivationCode, error) {
	if m.FindByDigestFunc != nil {
		return m.FindByDigestFunc(ctx, tx, digest)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[digest]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockActivationCodeRepo) Redeem(ctx context.Context, tx repository.Tx, digest, userID string, at time.Time) error {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, tx, digest, userID, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[digest]
	if !ok {
		return domain.ErrCodeNotFound
	}
	if c.IsUsed {
		return domain.ErrCodeAlreadyUsed
	}
	used := at.UTC()
	c.IsUsed = true
	c.ActivatedAt = &used
	c.RedeemedByUserID = &userID
	return nil
}

func (m *MockActivationCodeRepo) FindByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.ActivationCode, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, tx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ActivationCode
	for _, c := range m.codes {
		if c.RedeemedByUserID != nil && *c.RedeemedByUserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ---- User repository mock ----

type MockUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User

	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	SaveFunc     func(ctx context.Context, tx repository.Tx, u *model.User) error
	InsertErr    error
	SaveErr      error
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{users: make(map[string]*model.User)}
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockUserRepo) Insert(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) CreateIfAbsent(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; ok {
		return nil
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, tx, u)
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *MockUserRepo) SetLastPlayed(ctx context.Context, tx repository.Tx, userID string, meditationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.LastPlayedMeditationID = &meditationID
	return nil
}

// ---- Meditation repository mock ----

type MockMeditationRepo struct {
	mu     sync.Mutex
	items  map[int64]*model.Meditation
	nextID int64

	ListErr error
}

func NewMockMeditationRepo() *MockMeditationRepo {
	return &MockMeditationRepo{items: make(map[int64]*model.Meditation), nextID: 1}
}

var _ repository.MeditationRepository = (*MockMeditationRepo)(nil)

func (m *MockMeditationRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Meditation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (m *MockMeditationRepo) List(ctx context.Context, tx repository.Tx, category string) ([]*model.Meditation, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Meditation
	for id := int64(1); id < m.nextID; id++ {
		it, ok := m.items[id]
		if !ok {
			continue
		}
		if category != "" && it.Category != category {
			continue
		}
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockMeditationRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items), nil
}

func (m *MockMeditationRepo) Save(ctx context.Context, tx repository.Tx, med *model.Meditation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if med.ID == 0 {
		med.ID = m.nextID
		m.nextID++
	} else if med.ID >= m.nextID {
		m.nextID = med.ID + 1
	}
	cp := *med
	m.items[med.ID] = &cp
	return nil
}
