package auth

import "context"

// Service defines admin authentication business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}
