package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"github.com/Tkay24/commerce/internal/repos"
	"github.com/Tkay24/commerce/internal/services"
)

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &services.AuthService{Users: repos.NewUserRepo(db)}
}

func TestRegisterLoginRoundTrip(t *testing.T) {
	auth := newAuth(t)

	u, err := auth.Register("sid-1", "carol", "S3cret!pass", "S3cret!pass")
	require.NoError(t, err)
	require.Equal(t, "carol", u.Username)

	// registration binds the session
	cur, err := auth.CurrentUser("sid-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, cur.ID)

	require.NoError(t, auth.Logout("sid-1"))
	_, err = auth.CurrentUser("sid-1")
	require.Error(t, err)

	// password is checked via bcrypt, not stored plaintext
	_, err = auth.Login("sid-2", "carol", "wrong-pass")
	require.ErrorIs(t, err, services.ErrBadCreds)

	cur, err = auth.Login("sid-2", "carol", "S3cret!pass")
	require.NoError(t, err)
	require.Equal(t, u.ID, cur.ID)
}

func TestRegisterRejections(t *testing.T) {
	auth := newAuth(t)

	_, err := auth.Register("sid-1", "carol", "S3cret!pass", "different")
	require.ErrorIs(t, err, services.ErrPasswordMismatch)

	_, err = auth.Register("sid-1", "carol", "S3cret!pass", "S3cret!pass")
	require.NoError(t, err)

	// handle uniqueness is enforced case-insensitively by the store
	_, err = auth.Register("sid-2", "carol", "S3cret!pass", "S3cret!pass")
	require.ErrorIs(t, err, services.ErrUsernameTaken)
	_, err = auth.Register("sid-2", "CAROL", "S3cret!pass", "S3cret!pass")
	require.ErrorIs(t, err, services.ErrUsernameTaken)
}
