package ports

import (
	"context"

	"github.com/zecall/dashboard/internal/core/domain"
)

// UserRepository defines persistence for dashboard accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// RegisterInput carries signup form data. An empty TenantID creates a new
// tenant owned by the registering user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	TenantID string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
