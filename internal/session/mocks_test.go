package session

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) GetSession(ctx context.Context) (*Session, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*Session)
	return s, args.Error(1)
}

func (m *MockAuthClient) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAuthClient) OnAuthStateChange(handler AuthStateHandler) Subscription {
	args := m.Called(handler)
	return args.Get(0).(Subscription)
}

type MockSubscription struct {
	mock.Mock
}

func (m *MockSubscription) Unsubscribe() {
	m.Called()
}

type MockAgentInstaller struct {
	mock.Mock
}

func (m *MockAgentInstaller) InstallDefaultAgent(ctx context.Context, userID string, createdAt time.Time) error {
	args := m.Called(ctx, userID, createdAt)
	return args.Error(0)
}
