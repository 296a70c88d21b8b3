package mappers

import (
	"fmt"

	"github.com/tillgate/tillgate/internal/domain/user"
	vo "github.com/tillgate/tillgate/internal/domain/user/value_objects"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/models"
)

// UserToDomain converts a persistence model to a domain entity
func UserToDomain(model *models.UserModel) (*user.User, error) {
	if model == nil {
		return nil, nil
	}

	email, err := vo.NewEmail(model.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to create email value object: %w", err)
	}

	name, err := vo.NewName(model.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create name value object: %w", err)
	}

	return user.ReconstructUser(
		model.ID,
		email,
		name,
		model.PasswordHash,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// UserToModel converts a domain entity to a persistence model
func UserToModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:           u.ID(),
		Email:        u.Email().String(),
		Name:         u.Name().String(),
		PasswordHash: u.PasswordHash(),
		IsActive:     u.IsActive(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}
