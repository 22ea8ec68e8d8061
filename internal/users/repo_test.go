package users

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	created, err := repo.Create(ctx, CreateUserDTO{
		Email:        "coach@example.com",
		PasswordHash: "hash",
		RoleID:       dbtest.ParentRoleID,
	})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	found, err := repo.FindByEmail(ctx, "coach@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.NotNil(t, found.Role)
	assert.Equal(t, "parent", found.Role.Name)
	assert.Nil(t, found.Parent)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryRejectsDuplicateEmail(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	dto := CreateUserDTO{Email: "dup@example.com", PasswordHash: "hash", RoleID: dbtest.ParentRoleID}
	_, err := repo.Create(ctx, dto)
	require.NoError(t, err)

	_, err = repo.Create(ctx, dto)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestRepositoryEmailTakenAndUpdates(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	a := dbtest.CreateAccount(t, client, "a@example.com")
	b := dbtest.CreateAccount(t, client, "b@example.com")

	taken, err := repo.EmailTaken(ctx, "b@example.com", a.User.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailTaken(ctx, "b@example.com", b.User.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, repo.UpdateEmail(ctx, a.User.ID, "new@example.com"))
	require.NoError(t, repo.UpdatePasswordHash(ctx, a.User.ID, "other-hash"))
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.UpdateLastLogin(ctx, a.User.ID, now))

	found, err := repo.FindByID(ctx, a.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", found.Email)
	assert.Equal(t, "other-hash", found.PasswordHash)
	require.NotNil(t, found.LastLoginAt)
	assert.WithinDuration(t, now, *found.LastLoginAt, time.Second)
	require.NotNil(t, found.Parent)
	assert.Equal(t, a.Parent.ID, found.Parent.ID)
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	ctx := context.Background()

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := repo.WithTx(tx).Create(ctx, CreateUserDTO{Email: "tx@example.com", PasswordHash: "h", RoleID: dbtest.ParentRoleID}); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.Error(t, err)

	_, err = repo.FindByEmail(ctx, "tx@example.com")
	assert.True(t, db.IsNotFound(err))
}
