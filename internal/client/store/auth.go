package store

import (
	"context"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

// Login authenticates a company and makes it the current user. On failure
// the session is left as it was.
func (s *Store) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	return s.login(ctx, creds, s.api.Login)
}

// AdminLogin authenticates an administrator.
func (s *Store) AdminLogin(ctx context.Context, creds models.Credentials) (*models.User, error) {
	return s.login(ctx, creds, s.api.AdminLogin)
}

func (s *Store) login(ctx context.Context, creds models.Credentials,
	call func(context.Context, models.Credentials) (*models.LoginResponse, error)) (*models.User, error) {
	r := s.begin(FamilyAuth, slotSession)
	resp, err := call(ctx, creds)

	var user *models.User
	if err == nil {
		user = resp.Principal()
	}
	s.finish(ctx, r, err, func(st *State) {
		st.IsAuthenticated = true
		st.CurrentUser = user
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "logged in", "email", creds.Email)
	return user, nil
}

// Logout clears the local session regardless of what the backend answers.
// The backend error, if any, is returned but not recorded.
func (s *Store) Logout(ctx context.Context) error {
	r := s.begin(FamilyAuth, slotSession)

	s.mu.Lock()
	s.state.IsAuthenticated = false
	s.state.CurrentUser = nil
	s.unlockAndNotify()

	err := s.api.Logout(ctx)
	if err != nil {
		s.logger.Warn(ctx, "logout request failed", "error", err)
	}
	s.finish(ctx, r, nil, nil)
	return err
}

// Register creates a company account. The session is not changed; the
// caller logs in afterwards.
func (s *Store) Register(ctx context.Context, data models.Registration) (*models.LoginResponse, error) {
	r := s.begin(FamilyAuth, noSlot)
	resp, err := s.api.Register(ctx, data)
	s.finish(ctx, r, err, nil)
	return resp, err
}

func (s *Store) ForgotPassword(ctx context.Context, email string) (*models.Message, error) {
	r := s.begin(FamilyAuth, noSlot)
	resp, err := s.api.ForgotPassword(ctx, email)
	s.finish(ctx, r, err, nil)
	return resp, err
}

func (s *Store) ResetPassword(ctx context.Context, token, newPassword string) (*models.Message, error) {
	r := s.begin(FamilyAuth, noSlot)
	resp, err := s.api.ResetPassword(ctx, token, newPassword)
	s.finish(ctx, r, err, nil)
	return resp, err
}

// VerifySession checks the stored token with the backend. A valid token
// refreshes the current user; a rejected or missing one ends the session
// and is removed from the token store.
func (s *Store) VerifySession(ctx context.Context) (*models.User, error) {
	r := s.begin(FamilyAuth, slotSession)
	user, err := s.api.VerifyToken(ctx)
	if err != nil && ctx.Err() == nil && isRejection(err) {
		s.mu.Lock()
		s.state.IsAuthenticated = false
		s.state.CurrentUser = nil
		s.mu.Unlock()
		if s.tokens != nil {
			if cerr := s.tokens.Clear(context.WithoutCancel(ctx)); cerr != nil {
				s.logger.Error(ctx, "failed to clear token", "error", cerr)
			}
		}
	}
	s.finish(ctx, r, err, func(st *State) {
		st.IsAuthenticated = true
		st.CurrentUser = user
	})
	return user, err
}

// RefreshSession exchanges the stored token for a new one.
func (s *Store) RefreshSession(ctx context.Context) (string, error) {
	r := s.begin(FamilyAuth, noSlot)
	token, err := s.api.RefreshToken(ctx)
	s.finish(ctx, r, err, nil)
	return token, err
}
