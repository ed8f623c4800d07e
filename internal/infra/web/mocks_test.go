//go:build !integration

package web

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"meditation-premium-service/internal/domain/model"
	"meditation-premium-service/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

type MockSubscriptionUC struct {
	IssueFunc    func(ctx context.Context, durationDays int) (*usecase.IssuedCode, error)
	CheckFunc    func(ctx context.Context, rawCode string) (*usecase.CodeStatus, error)
	ActivateFunc func(ctx context.Context, rawCode, userID string) (time.Time, error)
	HistoryFunc  func(ctx context.Context, userID string) ([]*model.ActivationCode, error)
}

func (m *MockSubscriptionUC) Issue(ctx context.Context, durationDays int) (*usecase.IssuedCode, error) {
	return m.IssueFunc(ctx, durationDays)
}

func (m *MockSubscriptionUC) Check(ctx context.Context, rawCode string) (*usecase.CodeStatus, error) {
	return m.CheckFunc(ctx, rawCode)
}

func (m *MockSubscriptionUC) Activate(ctx context.Context, rawCode, userID string) (time.Time, error) {
	return m.ActivateFunc(ctx, rawCode, userID)
}

func (m *MockSubscriptionUC) History(ctx context.Context, userID string) ([]*model.ActivationCode, error) {
	return m.HistoryFunc(ctx, userID)
}

type MockUserUC struct {
	RegisterFunc      func(ctx context.Context, id, name string) (*model.User, error)
	GetFunc           func(ctx context.Context, id string) (*model.User, error)
	ListFunc          func(ctx context.Context, offset, limit int) ([]*model.User, error)
	RenameFunc        func(ctx context.Context, id, name string) (*model.User, error)
	DeleteFunc        func(ctx context.Context, id string) error
	IsActiveFunc      func(ctx context.Context, id string) (bool, error)
	SetLastPlayedFunc func(ctx context.Context, userID string, meditationID int64) error
	LastPlayedFunc    func(ctx context.Context, userID string) (*model.Meditation, error)
}

func (m *MockUserUC) Register(ctx context.Context, id, name string) (*model.User, error) {
	return m.RegisterFunc(ctx, id, name)
}

func (m *MockUserUC) Get(ctx context.Context, id string) (*model.User, error) {
	return m.GetFunc(ctx, id)
}

func (m *MockUserUC) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	return m.ListFunc(ctx, offset, limit)
}

func (m *MockUserUC) Rename(ctx context.Context, id, name string) (*model.User, error) {
	return m.RenameFunc(ctx, id, name)
}

func (m *MockUserUC) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *MockUserUC) IsActive(ctx context.Context, id string) (bool, error) {
	return m.IsActiveFunc(ctx, id)
}

func (m *MockUserUC) SetLastPlayed(ctx context.Context, userID string, meditationID int64) error {
	return m.SetLastPlayedFunc(ctx, userID, meditationID)
}

func (m *MockUserUC) LastPlayed(ctx context.Context, userID string) (*model.Meditation, error) {
	return m.LastPlayedFunc(ctx, userID)
}

type MockMeditationUC struct {
	ListFunc func(ctx context.Context, userID, category string) ([]*usecase.MeditationView, error)
	GetFunc  func(ctx context.Context, id int64, userID string) (*usecase.MeditationView, error)
	SeedFunc func(ctx context.Context) error
}

func (m *MockMeditationUC) List(ctx context.Context, userID, category string) ([]*usecase.MeditationView, error) {
	return m.ListFunc(ctx, userID, category)
}

func (m *MockMeditationUC) Get(ctx context.Context, id int64, userID string) (*usecase.MeditationView, error) {
	return m.GetFunc(ctx, id, userID)
}

func (m *MockMeditationUC) Seed(ctx context.Context) error {
	return m.SeedFunc(ctx)
}
