package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestBucketFor(t *testing.T) {
	assert.Equal(t, CompletionLow, BucketFor(25))
	assert.Equal(t, CompletionPartial, BucketFor(50))
	assert.Equal(t, CompletionPartial, BucketFor(75))
	assert.Equal(t, CompletionComplete, BucketFor(100))

	lo, hi, ok := CompletionPartial.Range()
	assert.True(t, ok)
	assert.Equal(t, [2]int{50, 99}, [2]int{lo, hi})
	_, _, ok = CompletionBucket("bogus").Range()
	assert.False(t, ok)
}

func TestJSONBRoundTrip(t *testing.T) {
	v, err := StringList{"Best memory?", "Future plans?"}.Value()
	require.NoError(t, err)
	var list StringList
	require.NoError(t, list.Scan(v))
	assert.Equal(t, StringList{"Best memory?", "Future plans?"}, list)

	nilList, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), nilList)

	var answers Answers
	require.NoError(t, answers.Scan(`{"0":"a","1":""}`))
	assert.Equal(t, 1, answers.Filled())

	var profile Profile
	require.NoError(t, profile.Scan(nil))
	assert.Error(t, profile.Scan(42))
}

func TestProfileComplete(t *testing.T) {
	p := Profile{FullName: "Ann Lee", Nickname: "Annie", Phone: "555", DateOfBirth: "2003-01-02"}
	assert.True(t, p.Complete())
	p.Nickname = ""
	assert.False(t, p.Complete())
}

func TestDriveCredentialKeepsRefreshToken(t *testing.T) {
	prev := &DriveCredential{RefreshToken: "r-1"}
	expiry := time.Now().Add(time.Hour)
	cred := NewDriveCredential("u1", &oauth2.Token{AccessToken: "a-2", TokenType: "Bearer", Expiry: expiry}, prev)
	assert.Equal(t, "r-1", cred.RefreshToken)

	token := cred.Token()
	assert.Equal(t, "a-2", token.AccessToken)
	assert.WithinDuration(t, expiry, token.Expiry, time.Second)
}
