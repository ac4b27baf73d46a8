package gcal

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"sigacal/internal/log"
)

// AuthError reports missing or unusable Google credentials. It is fatal:
// without a valid OAuth session no upsert can run.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gcal: %s: %v", e.Reason, e.Err)
	}
	return "gcal: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// NewService builds an authenticated Calendar API client. The OAuth
// client secret is read from credentialsPath (a desktop-type OAuth
// client); the user token is loaded from the store and refreshed
// transparently. When no token exists yet, the consent URL is printed and
// the authorization code read from stdin, then the token is persisted.
func NewService(ctx context.Context, credentialsPath string, store TokenStore) (*calendar.Service, error) {
	secret, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, &AuthError{Reason: "missing OAuth client secret " + credentialsPath, Err: err}
	}

	cfg, err := google.ConfigFromJSON(secret, calendar.CalendarScope)
	if err != nil {
		return nil, &AuthError{Reason: "parsing OAuth client secret", Err: err}
	}

	tok, err := store.Load()
	if err != nil {
		return nil, &AuthError{Reason: "loading stored token", Err: err}
	}
	if tok == nil {
		tok, err = authorize(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := store.Save(tok); err != nil {
			log.Error("could not persist OAuth token", err)
		}
	}

	src := cfg.TokenSource(ctx, tok)
	client := oauth2.NewClient(ctx, src)

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, &AuthError{Reason: "building calendar client", Err: err}
	}

	// Persist a refreshed token so the next run skips the refresh round
	// trip. Best effort.
	if fresh, err := src.Token(); err == nil && fresh.AccessToken != tok.AccessToken {
		if err := store.Save(fresh); err != nil {
			log.Error("could not persist refreshed token", err)
		}
	}

	return svc, nil
}

// authorize runs the interactive consent flow: print URL, paste code.
func authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	url := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following URL, authorize the app and paste the code:\n%s\nCode: ", url)

	var code string
	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		code = scanner.Text()
	}
	if code == "" {
		return nil, &AuthError{Reason: "no authorization code provided"}
	}

	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Reason: "exchanging authorization code", Err: err}
	}
	return tok, nil
}
