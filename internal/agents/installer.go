// Package agents provisions the default agent for new users.
package agents

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const installPath = "/agents/default/install"

// InstallRequest is the body of POST /agents/default/install.
type InstallRequest struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// InstallResponse reports whether the call created the agent or found it.
type InstallResponse struct {
	AgentID   string `json:"agent_id"`
	Installed bool   `json:"installed"`
}

// Poster sends a JSON POST to the backend.
type Poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

type Installer struct {
	api Poster
	log *zap.Logger
}

func NewInstaller(api Poster, logger *zap.Logger) *Installer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Installer{api: api, log: logger}
}

// InstallDefaultAgent asks the backend to install the default agent for the
// user. The backend is idempotent, so repeated sign-ins are harmless.
func (i *Installer) InstallDefaultAgent(ctx context.Context, userID string, createdAt time.Time) error {
	var resp InstallResponse
	req := InstallRequest{UserID: userID, CreatedAt: createdAt}
	if err := i.api.Post(ctx, installPath, req, &resp); err != nil {
		return fmt.Errorf("install default agent for %s: %w", userID, err)
	}
	if resp.Installed {
		i.log.Info("installed default agent", zap.String("user_id", userID), zap.String("agent_id", resp.AgentID))
	} else {
		i.log.Debug("default agent already present", zap.String("user_id", userID), zap.String("agent_id", resp.AgentID))
	}
	return nil
}
