package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kanbaru/internal/syncer"
	"github.com/mesh-intelligence/kanbaru/pkg/types"
)

// Signup creates the remote account, stores the credentials locally and
// uploads the current boards as the new user's board document.
func (a *App) Signup(ctx context.Context, username, password, confirm string) error {
	if _, err := a.Auth.Signup(ctx, username, password, confirm); err != nil {
		return err
	}
	if err := a.Store.SetCredentials(types.Credentials{Username: username, Password: password}); err != nil {
		return err
	}
	return a.wait(ctx, a.Syncer.Push(ctx, username))
}

// Login checks the credentials, then replaces the local boards with the
// user's board document. Local state is unchanged when either step fails.
func (a *App) Login(ctx context.Context, username, password string) error {
	if _, err := a.Auth.Login(ctx, username, password); err != nil {
		return err
	}
	if err := a.wait(ctx, a.Syncer.Pull(ctx, username)); err != nil {
		return err
	}
	return a.Store.SetCredentials(types.Credentials{Username: username, Password: password})
}

// Logout clears the local boards and credentials.
func (a *App) Logout() error {
	return a.Store.Logout()
}

// DeleteAccount removes the user's board document and account record and
// then logs out locally.
func (a *App) DeleteAccount(ctx context.Context) error {
	username := a.Store.Credentials().Username
	if username == "" {
		return types.ErrNotLoggedIn
	}
	if err := a.Store.DeleteAccount(ctx); err != nil {
		return err
	}
	if err := a.Auth.Delete(ctx, username); err != nil {
		return fmt.Errorf("boards deleted but account record kept: %w", err)
	}
	return nil
}

// Push uploads the boards of the logged-in user and waits for the result.
func (a *App) Push(ctx context.Context) error {
	username := a.Store.Credentials().Username
	if username == "" {
		return types.ErrNotLoggedIn
	}
	return a.wait(ctx, a.Syncer.Push(ctx, username))
}

// Pull downloads the boards of the logged-in user and waits for the result.
func (a *App) Pull(ctx context.Context) error {
	username := a.Store.Credentials().Username
	if username == "" {
		return types.ErrNotLoggedIn
	}
	return a.wait(ctx, a.Syncer.Pull(ctx, username))
}

func (a *App) wait(ctx context.Context, job *syncer.Job) error {
	st, err := job.Wait(ctx)
	if err != nil {
		a.Logger.Warn("sync job did not succeed",
			zap.String("job", st.ID),
			zap.String("state", st.State.String()),
			zap.Error(err))
	}
	return err
}
