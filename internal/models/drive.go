package models

import (
	"time"

	"golang.org/x/oauth2"
)

// DriveCredential is the stored OAuth token for a user's Google Drive.
type DriveCredential struct {
	UserID       string     `db:"user_id"`
	AccessToken  string     `db:"access_token"`
	RefreshToken string     `db:"refresh_token"`
	TokenType    string     `db:"token_type"`
	Expiry       *time.Time `db:"expiry"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// Token converts the row to an oauth2 token.
func (d *DriveCredential) Token() *oauth2.Token {
	token := &oauth2.Token{AccessToken: d.AccessToken, RefreshToken: d.RefreshToken, TokenType: d.TokenType}
	if d.Expiry != nil {
		token.Expiry = *d.Expiry
	}
	return token
}

// NewDriveCredential builds a row from a token. An empty refresh token keeps the previous one.
func NewDriveCredential(userID string, token *oauth2.Token, previous *DriveCredential) *DriveCredential {
	cred := &DriveCredential{
		UserID:       userID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
	}
	if cred.RefreshToken == "" && previous != nil {
		cred.RefreshToken = previous.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		cred.Expiry = &expiry
	}
	return cred
}
