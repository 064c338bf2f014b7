package repo

import (
	"context"

	"github.com/rogerio-castellano/invoice-pricelist/internal/models"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
}
