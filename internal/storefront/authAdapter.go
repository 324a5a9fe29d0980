package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

type AuthAdapterLogHook struct{}

func (h *AuthAdapterLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "AuthAdapter: " + entry.Message
	return nil
}

func (h *AuthAdapterLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// UserResolver turns a client token into a user id.
type UserResolver interface {
	Auth(ctx context.Context, role []string, clientToken string) (int, string, error)
}

type authAdapter struct {
	SystemToken string
	client      http.Client
	log         *logrus.Entry
	authHost    string
	authPort    string
}

func NewAuthAdapter(log *logrus.Entry, authHost, authPort string) *authAdapter {
	c := http.Client{
		Timeout: time.Second * 10,
	}

	return &authAdapter{
		client:   c,
		log:      log,
		authHost: authHost,
		authPort: authPort,
	}
}

func (a *authAdapter) url(path string) string {
	return fmt.Sprintf("http://%s%s%s", a.authHost, a.authPort, path)
}

// Login obtains the system token used to authorize validation calls.
func (a *authAdapter) Login(ctx context.Context, email, password string) error {
	requestBody := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{
		Email:    email,
		Password: password,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("failed to marshal login request body - %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url("/system/auth/login"), bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create login request - %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Debugf("login: failed login request with err - %v", err)
		return fmt.Errorf("failed login request - %w", err)
	}
	defer resp.Body.Close()

	bts, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed read body - %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var token string
		for _, cookie := range resp.Cookies() {
			if cookie.Name == "Authorization" {
				token = cookie.Value
				break
			}
		}

		if token == "" {
			return fmt.Errorf("token not found (cookies from authservice)")
		}

		a.SystemToken = token
		a.log.Debug("login: success login")
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("authservice /system/auth/login %d: %w", resp.StatusCode, errUnauthorized)
	default:
		return fmt.Errorf("authservice /system/auth/login unexpected: statuscode - %d, body - %s", resp.StatusCode, string(bts))
	}
}

// Auth validates clientToken for role. A non-200 status is returned without
// an error so the caller can answer with it.
func (a *authAdapter) Auth(ctx context.Context, role []string, clientToken string) (int, string, error) {
	requestBody := struct {
		Role []string `json:"role"`
	}{
		Role: role,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return 0, "", fmt.Errorf("failed to marshal auth request body - %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url("/system/auth/validate"), bytes.NewBuffer(jsonBody))
	if err != nil {
		a.log.Errorf("auth: failed create authservice request /system/auth/validate - %v", err)
		return 0, "", fmt.Errorf("failed create auth request - %w", err)
	}

	req.Header.Set("Authorization", a.SystemToken)
	req.Header.Set("X-System-Token", clientToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("failed authservice request - %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, "", nil
	}

	var responseBody struct {
		UserID json.Number `json:"userId"`
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&responseBody); err != nil {
		a.log.Errorf("auth: failed to decode response body: %v", err)
		return 0, "", fmt.Errorf("failed to decode response body - %w", err)
	}

	if _, err := strconv.ParseUint(responseBody.UserID.String(), 10, 64); err != nil {
		return 0, "", fmt.Errorf("unexpected userId %q", responseBody.UserID)
	}

	return resp.StatusCode, responseBody.UserID.String(), nil
}
