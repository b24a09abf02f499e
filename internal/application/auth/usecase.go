package auth

import (
	"context"
	"errors"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/jwt"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login contra el remoto; la tabla local solo se consulta si el remoto no responde.
type AuthUseCase struct {
	store    ports.RemoteStore
	users    repository.UserRepository
	fallback ports.CredentialFallback
	jwtCfg   JWTConfig
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth. fallback nil deshabilita la tabla local.
func NewAuthUseCase(store ports.RemoteStore, users repository.UserRepository, fallback ports.CredentialFallback, jwtCfg JWTConfig, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{store: store, users: users, fallback: fallback, jwtCfg: jwtCfg, log: log}
}

// Login verifica email/password, resuelve el rol por el ID de la identidad y emite el JWT.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	user, fallback, err := uc.authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:    token,
		User:     *toUserResponse(user),
		Fallback: fallback,
	}, nil
}

func (uc *AuthUseCase) authenticate(ctx context.Context, email, password string) (*entity.User, bool, error) {
	identity, err := uc.store.CheckCredential(ctx, email, password)
	if err == nil {
		user, err := uc.users.GetByID(ctx, identity.ID)
		if err != nil {
			return nil, false, err
		}
		if user == nil {
			return nil, false, domain.ErrUserNotFound
		}
		return user, false, nil
	}

	var te *domain.TransportError
	if !errors.As(err, &te) || uc.fallback == nil {
		return nil, false, err
	}
	user, ok := uc.fallback.Authenticate(ctx, email, password)
	if !ok {
		return nil, false, domain.ErrUnauthorized
	}
	uc.log.Warn().Err(err).Str("user_id", user.ID).Msg("remoto no disponible, login contra la tabla local")
	return user, true, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   string(u.Role),
		Origin: string(entity.ResolveOrigin(u.Origin, u.ID)),
	}
}
