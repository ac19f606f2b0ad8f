// Auth0 implementation of [Identity]
//
// Runs the OAuth2 authorization code flow against the tenant's hosted
// login page, with a local callback listener standing in for the SPA's
// redirect handling.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/closet/internal/models"
	"github.com/desertthunder/closet/internal/server"
	"github.com/desertthunder/closet/internal/shared"
	"golang.org/x/oauth2"
)

const loginTimeout = 3 * time.Minute

// DefaultSessionPath returns where the identity session is stored.
func DefaultSessionPath() string {
	return filepath.Join(os.Getenv("HOME"), ".closet", "session.json")
}

// session is the on-disk identity state written after a successful login.
// It holds provider tokens and the user snapshot, never closet data.
type session struct {
	Token *oauth2.Token `json:"token"`
	User  models.User   `json:"user"`
}

// Auth0Service implements the [Identity] interface for an Auth0 tenant.
type Auth0Service struct {
	config       *oauth2.Config
	domain       string
	audience     string
	sessionPath  string
	callbackAddr string
	httpClient   *http.Client

	// authorize is swappable so tests can skip the browser dance.
	authorize func(ctx context.Context, state string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

// NewAuth0Service creates an identity service from the credentials map
// (domain, client_id, client_secret, redirect_uri, audience).
func NewAuth0Service(credentials map[string]string) (*Auth0Service, error) {
	domain, ok := credentials["domain"]
	if !ok || domain == "" {
		return nil, fmt.Errorf("%w: missing auth0 domain", shared.ErrMissingCredentials)
	}

	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing auth0 client_id", shared.ErrMissingCredentials)
	}

	redirectURI := credentials["redirect_uri"]
	if redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	redirect, err := url.Parse(redirectURI)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("%w: invalid redirect_uri %q", shared.ErrInvalidConfig, redirectURI)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: credentials["client_secret"],
		RedirectURL:  redirectURI,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://" + domain + "/authorize",
			TokenURL: "https://" + domain + "/oauth/token",
		},
	}

	s := &Auth0Service{
		config:       config,
		domain:       domain,
		audience:     credentials["audience"],
		sessionPath:  DefaultSessionPath(),
		callbackAddr: redirect.Host,
		httpClient:   http.DefaultClient,
	}
	s.authorize = s.browserAuthorize

	return s, nil
}

func (s *Auth0Service) Name() string {
	return "Auth0"
}

// browserAuthorize opens the hosted login page and waits for the local
// callback to deliver a token.
func (s *Auth0Service) browserAuthorize(ctx context.Context, state string, extra ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	handler := server.NewOAuthHandler(s.config, state)

	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline}
	if s.audience != "" {
		opts = append(opts, oauth2.SetAuthURLParam("audience", s.audience))
	}
	opts = append(opts, extra...)

	authURL := s.config.AuthCodeURL(state, opts...)
	if err := shared.OpenBrowser(authURL); err != nil {
		return nil, err
	}

	return server.RunCallback(ctx, handler, s.callbackAddr, loginTimeout)
}

// Login performs the interactive authorization flow, fetches the user
// profile, and persists the session.
func (s *Auth0Service) Login(ctx context.Context) (*models.User, error) {
	return s.runFlow(ctx)
}

// Signup is Login starting at the tenant's signup screen. Auth0 selects
// the screen through the screen_hint parameter; the callback, token
// exchange, and session handling are unchanged.
func (s *Auth0Service) Signup(ctx context.Context) (*models.User, error) {
	return s.runFlow(ctx, oauth2.SetAuthURLParam("screen_hint", "signup"))
}

func (s *Auth0Service) runFlow(ctx context.Context, opts ...oauth2.AuthCodeOption) (*models.User, error) {
	state := shared.GenerateID()

	token, err := s.authorize(ctx, state, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	user, err := s.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.saveSession(&session{Token: token, User: *user}); err != nil {
		return nil, err
	}

	return user, nil
}

// fetchUserInfo retrieves the OIDC profile for the token's subject.
func (s *Auth0Service) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+s.domain+"/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: userinfo status %d", shared.ErrAuthFailed, resp.StatusCode)
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: failed to decode userinfo: %v", shared.ErrAuthFailed, err)
	}
	if user.Subject == "" {
		return nil, fmt.Errorf("%w: userinfo missing subject", shared.ErrAuthFailed)
	}

	return &user, nil
}

// CurrentUser returns the stored identity snapshot.
func (s *Auth0Service) CurrentUser() (*models.User, error) {
	sess, err := s.loadSession()
	if err != nil {
		return nil, err
	}

	if sess.Token != nil && !sess.Token.Valid() && sess.Token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: run `closet auth login` again", shared.ErrTokenExpired)
	}

	return &sess.User, nil
}

// IsAuthenticated reports whether a usable session exists.
func (s *Auth0Service) IsAuthenticated() bool {
	_, err := s.CurrentUser()
	return err == nil
}

// Logout removes the stored session. Idempotent.
func (s *Auth0Service) Logout() error {
	if err := os.Remove(s.sessionPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (s *Auth0Service) loadSession() (*session, error) {
	data, err := os.ReadFile(s.sessionPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no session found, run `closet auth login`", shared.ErrNotAuthenticated)
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}

	var sess session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: corrupt session file: %v", shared.ErrNotAuthenticated, err)
	}
	if sess.User.Subject == "" {
		return nil, fmt.Errorf("%w: session has no subject", shared.ErrNotAuthenticated)
	}

	return &sess, nil
}

func (s *Auth0Service) saveSession(sess *session) error {
	if err := os.MkdirAll(filepath.Dir(s.sessionPath), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := shared.MarshalJSON(sess, true)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(s.sessionPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}
