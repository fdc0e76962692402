package persistence

import (
	"github.com/jacksonlee411/office-ops/modules/core/domain/aggregates/user"
	"github.com/jacksonlee411/office-ops/modules/core/infrastructure/persistence/models"
)

func ToDomainUser(m *models.User) *user.User {
	return &user.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      user.Role(m.Role),
		Category:  m.Category,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
