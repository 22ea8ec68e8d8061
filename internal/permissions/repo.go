package permissions

import (
	"context"

	"github.com/angelmondragon/juniorgolf-backend/internal/repo"
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository reads roles and their granted permissions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindRoleByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	EnsureRole(ctx context.Context, name enums.RoleName, description string) (*models.Role, error)
	ListPermissionNames(ctx context.Context, roleID uuid.UUID) ([]string, error)
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) FindRoleByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	var role models.Role
	if err := r.DB(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// EnsureRole returns the named role, creating it when the seed data is missing.
func (r *repository) EnsureRole(ctx context.Context, name enums.RoleName, description string) (*models.Role, error) {
	role := models.Role{
		ID:          uuid.New(),
		Name:        name.String(),
		Description: description,
	}
	err := r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&role).Error
	if err != nil {
		return nil, err
	}

	var stored models.Role
	if err := r.DB(ctx).Where("name = ?", name.String()).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// ListPermissionNames returns the permission keys granted to roleID.
func (r *repository) ListPermissionNames(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	var names []string
	err := r.DB(ctx).
		Table("permissions").
		Joins("JOIN role_permissions rp ON rp.permission_id = permissions.id").
		Where("rp.role_id = ?", roleID).
		Order("permissions.name ASC").
		Pluck("permissions.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}
