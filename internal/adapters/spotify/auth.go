package spotify

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// Scopes the catalog requires for library reads and playlist writes.
var oauthScopes = []string{
	"user-library-read",
	"user-read-private",
	"user-read-email",
	"playlist-modify-private",
	"user-read-recently-played",
	"user-top-read",
	"user-read-currently-playing",
}

// OAuthConfig builds the authorization-code flow configuration for the
// catalog's accounts service.
func OAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       oauthScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://accounts.spotify.com/authorize",
			TokenURL: "https://accounts.spotify.com/api/token",
		},
	}
}

// AuthenticatedHTTPClient wraps the token in a refreshing transport. The
// returned client injects the bearer header and refreshes the token when
// expired, so the catalog client never sees auth concerns.
func AuthenticatedHTTPClient(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) *http.Client {
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, token))
}
