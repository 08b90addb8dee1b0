package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/microblog/internal/common"
	"github.com/dmitrijs2005/microblog/internal/cryptox"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/microblog/internal/server/services"
	"github.com/dmitrijs2005/microblog/internal/server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) *services.UserService {
	t.Helper()
	cryptox.DefaultParams = cryptox.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32}

	db, err := storage.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "admin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return services.NewUserService(db, repomanager.NewSQLiteRepositoryManager(), logging.Nop{})
}

func stubPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, errors.New("no more input")
		}
		pw := passwords[0]
		passwords = passwords[1:]
		return []byte(pw), nil
	}
}

func createUser(t *testing.T, users *services.UserService, email string) {
	t.Helper()
	_, err := users.Create(context.Background(), services.NewUser{
		Name: "User", Email: email, Password: "foobar", Confirmation: "foobar",
	})
	require.NoError(t, err)
	// creation order is by millisecond timestamp
	time.Sleep(2 * time.Millisecond)
}

func TestRun_CreateAdmin(t *testing.T) {
	users := newUserService(t)
	stubPasswords(t, "topsecret", "topsecret")
	var out bytes.Buffer

	c := New(users, strings.NewReader("Root\nroot@example.com\n"), &out)
	require.NoError(t, c.Run(context.Background(), []string{"create-admin"}))
	assert.Contains(t, out.String(), "Created admin root@example.com")

	u, err := users.GetByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsElevated)
	assert.True(t, users.VerifyPassword(u, "topsecret"))
}

func TestRun_CreateAdminMismatch(t *testing.T) {
	users := newUserService(t)
	stubPasswords(t, "topsecret", "different")
	var out bytes.Buffer

	c := New(users, strings.NewReader("Root\nroot@example.com\n"), &out)
	err := c.Run(context.Background(), []string{"create-admin"})
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestRun_PromoteDemote(t *testing.T) {
	users := newUserService(t)
	createUser(t, users, "a@example.com")
	var out bytes.Buffer
	c := New(users, strings.NewReader(""), &out)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, []string{"promote", "A@example.com"}))
	u, err := users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsElevated)

	require.NoError(t, c.Run(ctx, []string{"demote", "a@example.com"}))
	u, err = users.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, u.IsElevated)

	require.ErrorIs(t, c.Run(ctx, []string{"promote", "ghost@example.com"}), common.ErrorNotFound)
	require.ErrorIs(t, c.Run(ctx, []string{"promote"}), ErrUsage)
}

func TestRun_Delete(t *testing.T) {
	users := newUserService(t)
	createUser(t, users, "admin@example.com")
	createUser(t, users, "plain@example.com")
	createUser(t, users, "victim@example.com")
	var out bytes.Buffer
	c := New(users, strings.NewReader(""), &out)
	ctx := context.Background()

	require.NoError(t, c.Run(ctx, []string{"promote", "admin@example.com"}))

	require.ErrorIs(t, c.Run(ctx, []string{"delete", "plain@example.com", "victim@example.com"}), common.ErrorForbidden)
	require.NoError(t, c.Run(ctx, []string{"delete", "admin@example.com", "victim@example.com"}))
	assert.Contains(t, out.String(), "Deleted victim@example.com")

	_, err := users.GetByEmail(ctx, "victim@example.com")
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.ErrorIs(t, c.Run(ctx, []string{"delete", "admin@example.com"}), ErrUsage)
}

func TestRun_List(t *testing.T) {
	users := newUserService(t)
	createUser(t, users, "a@example.com")
	createUser(t, users, "b@example.com")
	var out bytes.Buffer
	c := New(users, strings.NewReader(""), &out)

	require.NoError(t, c.Run(context.Background(), []string{"list"}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "EMAIL")
	assert.Contains(t, lines[1], "a@example.com")

	out.Reset()
	require.NoError(t, c.Run(context.Background(), []string{"list", "1", "1"}))
	assert.Contains(t, out.String(), "b@example.com")
	assert.NotContains(t, out.String(), "a@example.com")

	require.ErrorIs(t, c.Run(context.Background(), []string{"list", "x"}), ErrUsage)
}

func TestRun_UnknownAndEmpty(t *testing.T) {
	var out bytes.Buffer
	c := New(nil, strings.NewReader(""), &out)

	require.ErrorIs(t, c.Run(context.Background(), nil), ErrUsage)
	require.ErrorIs(t, c.Run(context.Background(), []string{"frobnicate"}), ErrUsage)
	require.NoError(t, c.Run(context.Background(), []string{"help"}))
	assert.Contains(t, out.String(), "create-admin")
}
