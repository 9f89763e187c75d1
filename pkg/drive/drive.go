// Package drive uploads student photos to the student's own Google Drive.
package drive

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/noah-isme/yearbook-api/pkg/config"
)

// File is the uploaded Drive object.
type File struct {
	ID          string
	WebViewLink string
}

// Client wraps the OAuth flow and the Drive files API. Only files created by the app are
// visible to it (drive.file scope).
type Client struct {
	oauth *oauth2.Config
	opts  []option.ClientOption
}

// New returns nil when the OAuth client is not configured.
func New(cfg config.DriveConfig) *Client {
	if !cfg.Enabled() {
		return nil
	}
	return NewWithOAuthConfig(&oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       []string{drivev3.DriveFileScope},
		Endpoint:     google.Endpoint,
	})
}

// NewWithOAuthConfig builds a client from an explicit OAuth config; extra options are passed to
// the Drive service.
func NewWithOAuthConfig(oc *oauth2.Config, opts ...option.ClientOption) *Client {
	return &Client{oauth: oc, opts: opts}
}

// AuthCodeURL returns the consent page URL. Offline access with forced consent makes Google
// return a refresh token on every connect.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades an authorization code for a token.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange drive code: %w", err)
	}
	return token, nil
}

// Refresh returns a valid token, refreshing it when expired.
func (c *Client) Refresh(ctx context.Context, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}
	if token.RefreshToken == "" {
		return nil, fmt.Errorf("drive token expired and no refresh token stored")
	}
	fresh, err := c.oauth.TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh drive token: %w", err)
	}
	return fresh, nil
}

// Upload creates a file from body. It returns the token actually used, which differs from the
// input when a refresh happened.
func (c *Client) Upload(ctx context.Context, token *oauth2.Token, name, mimeType string, body io.Reader) (*File, *oauth2.Token, error) {
	current, err := c.Refresh(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	opts := append([]option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(current))}, c.opts...)
	srv, err := drivev3.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create drive service: %w", err)
	}

	created, err := srv.Files.Create(&drivev3.File{Name: name, MimeType: mimeType}).
		Media(body, googleapi.ContentType(mimeType)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, current, fmt.Errorf("upload %s to drive: %w", name, err)
	}
	return &File{ID: created.Id, WebViewLink: created.WebViewLink}, current, nil
}
