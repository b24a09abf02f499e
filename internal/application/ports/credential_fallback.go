package ports

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// CredentialFallback tabla local email -> contraseña -> rol, consultada solo cuando el remoto no responde.
type CredentialFallback interface {
	// Authenticate devuelve ok=false si el email no existe o la contraseña no coincide.
	Authenticate(ctx context.Context, email, password string) (*entity.User, bool)
}
