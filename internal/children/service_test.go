package children

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db/dbtest"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, Repository, dbtest.Account, dbtest.Account) {
	t.Helper()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo)
	require.NoError(t, err)
	owner := dbtest.CreateAccount(t, client, "owner@example.com")
	other := dbtest.CreateAccount(t, client, "other@example.com")
	return svc, repo, owner, other
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, pkgerrors.As(err).Code())
}

func TestCreateChildDefaults(t *testing.T) {
	svc, _, owner, _ := newTestService(t)

	child, err := svc.Create(context.Background(), owner.Parent.ID, CreateChildInput{
		Name:    "  Sam  ",
		AgeBand: enums.AgeBand4To6,
	})
	require.NoError(t, err)
	assert.Equal(t, "Sam", child.Name)
	assert.Equal(t, enums.SkillLevelBeginner, child.SkillLevel)
	assert.Zero(t, child.TotalStars)
	assert.Zero(t, child.AvailableStars)
	assert.Empty(t, child.AvatarState.ItemIDs())
}

func TestCreateChildValidation(t *testing.T) {
	svc, _, owner, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.Parent.ID, CreateChildInput{Name: "   ", AgeBand: enums.AgeBand4To6})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, owner.Parent.ID, CreateChildInput{Name: strings.Repeat("a", 51), AgeBand: enums.AgeBand4To6})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, owner.Parent.ID, CreateChildInput{Name: "Sam", AgeBand: "AGE_1_2"})
	requireCode(t, err, pkgerrors.CodeValidation)

	bad := enums.SkillLevel("PRO")
	_, err = svc.Create(ctx, owner.Parent.ID, CreateChildInput{Name: "Sam", AgeBand: enums.AgeBand4To6, SkillLevel: &bad})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, owner.Parent.ID, CreateChildInput{
		Name: "Sam", AgeBand: enums.AgeBand4To6,
		AvatarState: map[string]string{"CAPE": uuid.NewString()},
	})
	requireCode(t, err, pkgerrors.CodeValidation)

	child, err := svc.Create(ctx, owner.Parent.ID, CreateChildInput{
		Name: "Sam", AgeBand: enums.AgeBand4To6,
		AvatarState: map[string]string{"HAT": dbtest.ItemGolfCap.String()},
	})
	require.NoError(t, err)
	require.NotNil(t, child.AvatarState.Hat)
	assert.Equal(t, dbtest.ItemGolfCap, *child.AvatarState.Hat)
}

func TestListIsOldestFirstAndScoped(t *testing.T) {
	svc, _, owner, other := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, owner.Parent.ID, CreateChildInput{Name: "Ava", AgeBand: enums.AgeBand4To6})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := svc.Create(ctx, owner.Parent.ID, CreateChildInput{Name: "Ben", AgeBand: enums.AgeBand6To8})
	require.NoError(t, err)
	_, err = svc.Create(ctx, other.Parent.ID, CreateChildInput{Name: "Zed", AgeBand: enums.AgeBand8To10})
	require.NoError(t, err)

	list, err := svc.List(ctx, owner.Parent.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)
}

func TestCrossParentAccessIsNotFound(t *testing.T) {
	svc, _, owner, other := newTestService(t)
	ctx := context.Background()

	child, err := svc.Create(ctx, owner.Parent.ID, CreateChildInput{Name: "Sam", AgeBand: enums.AgeBand4To6})
	require.NoError(t, err)

	_, err = svc.Get(ctx, other.Parent.ID, child.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	name := "Hacked"
	_, err = svc.Update(ctx, other.Parent.ID, child.ID, UpdateChildInput{Name: &name})
	requireCode(t, err, pkgerrors.CodeNotFound)

	requireCode(t, svc.Delete(ctx, other.Parent.ID, child.ID), pkgerrors.CodeNotFound)

	_, err = svc.GetWithStats(ctx, other.Parent.ID, child.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	still, err := svc.Get(ctx, owner.Parent.ID, child.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sam", still.Name)
}

func TestUpdatePartial(t *testing.T) {
	svc, _, owner, _ := newTestService(t)
	ctx := context.Background()

	child, err := svc.Create(ctx, owner.Parent.ID, CreateChildInput{Name: "Sam", AgeBand: enums.AgeBand4To6})
	require.NoError(t, err)

	level := enums.SkillLevelAdvanced
	updated, err := svc.Update(ctx, owner.Parent.ID, child.ID, UpdateChildInput{SkillLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, "Sam", updated.Name)
	assert.Equal(t, enums.AgeBand4To6, updated.AgeBand)
	assert.Equal(t, enums.SkillLevelAdvanced, updated.SkillLevel)

	blank := " "
	_, err = svc.Update(ctx, owner.Parent.ID, child.ID, UpdateChildInput{Name: &blank})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestDeleteCascades(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo)
	require.NoError(t, err)
	owner := dbtest.CreateAccount(t, client, "cascade@example.com")
	ctx := context.Background()

	child := dbtest.CreateChild(t, client, owner.Parent.ID, "Sam", enums.AgeBand4To6, 0, 0)
	session := dbtest.CreateSession(t, client, child.ID, enums.SessionStatusInProgress, 0, time.Now())
	require.NoError(t, client.DB().Create(&models.SessionDrill{
		ID: uuid.New(), SessionID: session.ID, DrillID: dbtest.DrillPuttToTheCup, Order: 1,
	}).Error)
	require.NoError(t, client.DB().Create(&models.ChildAvatarItem{
		ID: uuid.New(), ChildID: child.ID, ItemID: dbtest.ItemGolfCap, UnlockedAt: time.Now().UTC(),
	}).Error)

	require.NoError(t, svc.Delete(ctx, owner.Parent.ID, child.ID))

	for _, table := range []string{"children", "sessions", "session_drills", "child_avatar_items"} {
		var count int64
		require.NoError(t, client.DB().Table(table).Count(&count).Error)
		assert.Zero(t, count, "table %s", table)
	}
}

func TestGetWithStats(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo)
	require.NoError(t, err)
	owner := dbtest.CreateAccount(t, client, "stats@example.com")
	ctx := context.Background()

	child := dbtest.CreateChild(t, client, owner.Parent.ID, "Sam", enums.AgeBand4To6, 10, 4)

	stats, err := svc.GetWithStats(ctx, owner.Parent.ID, child.ID)
	require.NoError(t, err)
	assert.Nil(t, stats.Streak)
	assert.Empty(t, stats.RecentSessions)
	assert.Zero(t, stats.TotalSessions)

	base := time.Now().Add(-10 * time.Hour)
	var newest uuid.UUID
	for i := 0; i < 7; i++ {
		s := dbtest.CreateSession(t, client, child.ID, enums.SessionStatusCompleted, 2, base.Add(time.Duration(i)*time.Hour))
		newest = s.ID
	}
	require.NoError(t, client.DB().Create(&models.Streak{
		ID: uuid.New(), ChildID: child.ID, CurrentStreak: 2, LongestStreak: 3, WeeklySessionCount: 1,
		WeekStartDate: time.Now().UTC().Truncate(24 * time.Hour),
	}).Error)

	stats, err = svc.GetWithStats(ctx, owner.Parent.ID, child.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalStars)
	assert.Equal(t, 4, stats.AvailableStars)
	assert.Equal(t, int64(7), stats.TotalSessions)
	require.Len(t, stats.RecentSessions, 5)
	assert.Equal(t, newest, stats.RecentSessions[0].ID)
	require.NotNil(t, stats.Streak)
	assert.Equal(t, 2, stats.Streak.CurrentStreak)
	assert.Equal(t, 3, stats.Streak.LongestStreak)
}

func TestRepositoryStarAccounting(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	owner := dbtest.CreateAccount(t, client, "stars@example.com")
	ctx := context.Background()
	child := dbtest.CreateChild(t, client, owner.Parent.ID, "Sam", enums.AgeBand4To6, 0, 0)

	require.NoError(t, repo.CreditStars(ctx, child.ID, 6))

	ok, err := repo.DebitAvailableStars(ctx, child.ID, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DebitAvailableStars(ctx, child.ID, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	reloaded, err := repo.FindOwned(ctx, owner.Parent.ID, child.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, reloaded.TotalStars)
	assert.Equal(t, 1, reloaded.AvailableStars)
}
