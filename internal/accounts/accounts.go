// Package accounts lists the accounts the signed-in user belongs to.
package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"emma-client/internal/apiclient"
	"emma-client/internal/session"

	"go.uber.org/zap"
)

// permissionDeniedCode is the Postgres insufficient_privilege SQLSTATE.
const permissionDeniedCode = "42501"

const getAccountsPath = "/rpc/get_accounts"

// Account is one entry of the get_accounts RPC.
type Account struct {
	AccountID       string    `json:"account_id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug,omitempty"`
	PersonalAccount bool      `json:"personal_account"`
	Role            string    `json:"account_role"`
	IsPrimaryOwner  bool      `json:"is_primary_owner"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RPCCaller invokes a backend procedure.
type RPCCaller interface {
	Post(ctx context.Context, path string, body, out any) error
}

// SessionSource yields the current session.
type SessionSource interface {
	GetSession(ctx context.Context) (*session.Session, error)
}

type Service struct {
	sessions SessionSource
	rpc      RPCCaller
	log      *zap.Logger
}

func NewService(sessions SessionSource, rpc RPCCaller, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{sessions: sessions, rpc: rpc, log: logger}
}

// List returns the user's accounts. Without a signed-in user, or on any
// failure, it returns an empty list.
func (s *Service) List(ctx context.Context) []Account {
	current, err := s.sessions.GetSession(ctx)
	if err != nil || current == nil || current.User == nil {
		s.log.Info("no authentication available for accounts, returning empty list", zap.Error(err))
		return []Account{}
	}

	var accounts []Account
	if err := s.rpc.Post(ctx, getAccountsPath, nil, &accounts); err != nil {
		if IsPermissionError(err) {
			s.log.Info("permission error for accounts, returning empty list", zap.Error(err))
		} else {
			s.log.Warn("error fetching accounts, returning empty list", zap.Error(err))
		}
		return []Account{}
	}
	if accounts == nil {
		accounts = []Account{}
	}
	return accounts
}

// IsPermissionError reports whether err is an auth or privilege failure
// rather than a transport or server fault.
func IsPermissionError(err error) bool {
	var httpErr *apiclient.HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	if httpErr.Code == permissionDeniedCode {
		return true
	}
	msg := strings.ToLower(httpErr.Message)
	return strings.Contains(msg, "permission") || strings.Contains(msg, "auth")
}
