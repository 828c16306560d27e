package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
	"github.com/dmitrijs2005/marketsupervisor/internal/common"
)

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	return c.login(ctx, pathCompanyLogin, "login failed", creds)
}

func (c *HTTPClient) AdminLogin(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	return c.login(ctx, pathAdminLogin, "admin login failed", creds)
}

// login posts credentials with default headers only and stores the issued
// access token.
func (c *HTTPClient) login(ctx context.Context, path, op string, creds models.Credentials) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, call{
		op: op, method: http.MethodPost, path: path,
		payload: creds, resource: ResourceAuth, noAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if err := c.storeToken(ctx, resp.AccessToken); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) storeToken(ctx context.Context, token string) error {
	if token == "" || c.tokens == nil {
		return nil
	}
	if err := c.tokens.SetToken(ctx, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

// Logout notifies the backend and always removes the stored token, even when
// the request fails. The request error is still returned.
func (c *HTTPClient) Logout(ctx context.Context) error {
	reqErr := c.do(ctx, call{
		op: "logout failed", method: http.MethodPost, path: pathLogout, resource: ResourceAuth,
	}, nil)

	if c.tokens != nil {
		// the caller may already be cancelled; clearing must still happen
		if err := c.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
			return errors.Join(reqErr, fmt.Errorf("clear token: %w", err))
		}
	}
	return reqErr
}

func (c *HTTPClient) Register(ctx context.Context, data models.Registration) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, call{
		op: "registration failed", method: http.MethodPost, path: pathRegister,
		payload: data, resource: ResourceAuth, noAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (*models.Message, error) {
	var resp models.Message
	err := c.do(ctx, call{
		op: "password reset request failed", method: http.MethodPost, path: pathForgotPassword,
		payload: map[string]string{"email": email}, resource: ResourceAuth, noAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) (*models.Message, error) {
	var resp models.Message
	err := c.do(ctx, call{
		op: "password reset failed", method: http.MethodPost, path: pathResetPassword,
		payload:  map[string]string{"token": token, "newPassword": newPassword},
		resource: ResourceAuth, noAuth: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyToken asks the backend who the stored token belongs to. Without a
// stored token no request is made.
func (c *HTTPClient) VerifyToken(ctx context.Context) (*models.User, error) {
	if c.tokens == nil {
		return nil, common.ErrNoToken
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, common.ErrNoToken
	}

	var resp struct {
		User    *models.User `json:"user"`
		Company *models.User `json:"company"`
	}
	err = c.do(ctx, call{
		op: "token verification failed", method: http.MethodGet, path: pathVerify, resource: ResourceAuth,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.User != nil {
		return resp.User, nil
	}
	if resp.Company != nil {
		return resp.Company, nil
	}
	return nil, common.ErrInvalidToken
}

// RefreshToken exchanges the stored token for a new one and stores it.
func (c *HTTPClient) RefreshToken(ctx context.Context) (string, error) {
	var resp models.TokenResponse
	err := c.do(ctx, call{
		op: "token refresh failed", method: http.MethodPost, path: pathRefresh, resource: ResourceAuth,
	}, &resp)
	if err != nil {
		return "", err
	}
	token := resp.Value()
	if token == "" {
		return "", common.ErrInvalidToken
	}
	if err := c.storeToken(ctx, token); err != nil {
		return "", err
	}
	return token, nil
}

// Ping reports whether the backend answers at all; any HTTP status counts.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.send(ctx, call{op: "health check failed", method: http.MethodGet, path: pathHealth, noAuth: true})
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return nil
	}
	return err
}
