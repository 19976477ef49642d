package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
)

type MockSink struct {
	mock.Mock
	name string
}

func newMockSink(name string) *MockSink {
	return &MockSink{name: name}
}

func (m *MockSink) Name() string { return m.name }

func (m *MockSink) InitSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSink) ClearTables(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSink) InsertUsers(ctx context.Context, users []domain.User) error {
	return m.Called(ctx, users).Error(0)
}

func (m *MockSink) InsertSessions(ctx context.Context, sessions []domain.Session) error {
	return m.Called(ctx, sessions).Error(0)
}

func (m *MockSink) InsertEvents(ctx context.Context, events []domain.Event) error {
	return m.Called(ctx, events).Error(0)
}

func (m *MockSink) InsertPurchases(ctx context.Context, purchases []domain.Purchase) error {
	return m.Called(ctx, purchases).Error(0)
}

func (m *MockSink) InsertDailyMetrics(ctx context.Context, metrics []domain.DailyMetric) error {
	return m.Called(ctx, metrics).Error(0)
}

func (m *MockSink) Promote(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSink) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSink) Close() error {
	return m.Called().Error(0)
}
