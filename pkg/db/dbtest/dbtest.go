// Package dbtest opens seeded in-memory sqlite databases for repository and service tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/migrate"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Seeded reference rows.
var (
	AdminRoleID  = uuid.MustParse("a0000000-0000-4000-8000-000000000001")
	ParentRoleID = uuid.MustParse("a0000000-0000-4000-8000-000000000002")

	DrillPuttToTheCup    = uuid.MustParse("d0000000-0000-4000-8000-000000000001")
	DrillChipAndChase    = uuid.MustParse("d0000000-0000-4000-8000-000000000002")
	DrillGolfBallBowling = uuid.MustParse("d0000000-0000-4000-8000-000000000003")

	ItemGolfCap       = uuid.MustParse("e0000000-0000-4000-8000-000000000001")
	ItemGolfGlove     = uuid.MustParse("e0000000-0000-4000-8000-000000000005")
	ItemBucketHat     = uuid.MustParse("e0000000-0000-4000-8000-000000000006")
	ItemGoldenPutter  = uuid.MustParse("e0000000-0000-4000-8000-000000000013")
	ItemClassicPutter = uuid.MustParse("e0000000-0000-4000-8000-000000000004")
)

// Open returns a client for a fresh seeded database that lives for the test.
func Open(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrate.ApplySQLite(context.Background(), sqlDB); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db.FromConn(conn)
}

// Account bundles a seeded user and its parent profile.
type Account struct {
	User   models.User
	Parent models.Parent
}

// CreateAccount inserts an active parent-role user with a parent profile.
func CreateAccount(t *testing.T, client *db.Client, email string) Account {
	t.Helper()

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "not-a-real-hash",
		IsActive:     true,
		RoleID:       ParentRoleID,
	}
	if err := client.DB().Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	parent := models.Parent{
		ID:       uuid.New(),
		UserID:   user.ID,
		Settings: types.ParentSettings{},
	}
	if err := client.DB().Create(&parent).Error; err != nil {
		t.Fatalf("create parent: %v", err)
	}
	return Account{User: user, Parent: parent}
}

// CreateChild inserts a child for parentID with the given star balances.
func CreateChild(t *testing.T, client *db.Client, parentID uuid.UUID, name string, band enums.AgeBand, totalStars, availableStars int) models.Child {
	t.Helper()

	child := models.Child{
		ID:             uuid.New(),
		ParentID:       parentID,
		Name:           name,
		AgeBand:        band,
		SkillLevel:     enums.SkillLevelBeginner,
		TotalStars:     totalStars,
		AvailableStars: availableStars,
	}
	if err := client.DB().Create(&child).Error; err != nil {
		t.Fatalf("create child: %v", err)
	}
	return child
}

// CreateSession inserts a session with the given status for childID.
func CreateSession(t *testing.T, client *db.Client, childID uuid.UUID, status enums.SessionStatus, stars int, startedAt time.Time) models.Session {
	t.Helper()

	session := models.Session{
		ID:               uuid.New(),
		ChildID:          childID,
		Status:           status,
		TotalStarsEarned: stars,
		StartedAt:        startedAt.UTC(),
	}
	if status == enums.SessionStatusCompleted {
		done := startedAt.Add(15 * time.Minute).UTC()
		session.CompletedAt = &done
	}
	if err := client.DB().Create(&session).Error; err != nil {
		t.Fatalf("create session: %v", err)
	}
	return session
}
