package gcal

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// OAuthScopes covers calendar access plus the identity scopes the login flow
// needs to resolve the user.
var OAuthScopes = []string{
	calendar.CalendarScope,
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// LoadOAuthConfig loads the OAuth2 configuration from a credentials file or
// the GOOGLE_CREDENTIALS_JSON environment variable (useful for container
// deployments). redirectURL is where Google sends the authorization code.
func LoadOAuthConfig(credentialsFile, redirectURL string) (*oauth2.Config, error) {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON"); credJSON != "" {
		config, err := google.ConfigFromJSON([]byte(credJSON), OAuthScopes...)
		if err == nil {
			config.RedirectURL = redirectURL
			return config, nil
		}
	}

	if credentialsFile != "" {
		if config, err := loadConfigFromFile(credentialsFile, redirectURL); err == nil {
			return config, nil
		}
	}

	if config, err := loadConfigFromFile("./credentials.json", redirectURL); err == nil {
		return config, nil
	}

	return nil, fmt.Errorf("no credentials file found - please provide credentials.json or set GOOGLE_CREDENTIALS_JSON env var")
}

func loadConfigFromFile(path, redirectURL string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := google.ConfigFromJSON(data, OAuthScopes...)
	if err != nil {
		return nil, err
	}

	config.RedirectURL = redirectURL
	return config, nil
}

// Gateway performs calendar operations on behalf of one authenticated user.
// It is built per request from the user's stored OAuth token; the underlying
// HTTP client refreshes the token transparently when it expires.
type Gateway struct {
	service    *calendar.Service
	calendarID string
}

// NewGateway creates a Gateway bound to the user's primary calendar.
func NewGateway(ctx context.Context, config *oauth2.Config, token *oauth2.Token) (*Gateway, error) {
	if token == nil {
		return nil, fmt.Errorf("no token available")
	}

	httpClient := config.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Gateway{service: service, calendarID: "primary"}, nil
}
