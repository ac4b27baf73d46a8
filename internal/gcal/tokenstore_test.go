package gcal

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	store := &FileTokenStore{Path: path}

	// Nothing stored yet: no token, no error.
	tok, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, tok)

	want := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}
	require.NoError(t, store.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, want.AccessToken, got.AccessToken)
	require.Equal(t, want.RefreshToken, got.RefreshToken)
	require.True(t, want.Expiry.Equal(got.Expiry))
}

func TestFileTokenStoreRejectsNil(t *testing.T) {
	store := &FileTokenStore{Path: filepath.Join(t.TempDir(), "token.json")}
	require.Error(t, store.Save(nil))
}

func TestMemoryTokenStore(t *testing.T) {
	store := &MemoryTokenStore{}

	tok, err := store.Load()
	require.NoError(t, err)
	require.Nil(t, tok)

	want := &oauth2.Token{AccessToken: "x"}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.Same(t, want, got)
}
