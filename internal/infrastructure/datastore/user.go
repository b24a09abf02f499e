package datastore

import (
	"context"
	"fmt"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo perfiles de usuario (tabla profiles). Sin caché: el respaldo de lectura es la lista semilla.
type UserRepo struct {
	store ports.RemoteStore
	log   *logger.Logger
}

// NewUserRepository construye el repositorio de usuarios.
func NewUserRepository(store ports.RemoteStore, log *logger.Logger) *UserRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &UserRepo{store: store, log: log}
}

// List devuelve los perfiles; con el remoto caído, la lista semilla fija.
func (r *UserRepo) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.store.Query(ctx, tableProfiles, ports.Filter{OrderBy: "name"})
	if err != nil {
		r.log.Warn().Err(err).Str("entity", "user").Str("op", "list").Msg("remoto no disponible, usando usuarios semilla")
		return SeedUsers(), nil
	}
	users := make([]entity.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromRow(row))
	}
	return users, nil
}

// GetByID busca el perfil. Los IDs locales se resuelven contra la lista semilla sin ir al remoto.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !remoteID(id) {
		if u, ok := seedUserByID(id); ok {
			return u, nil
		}
		return nil, nil
	}
	rows, err := r.store.Query(ctx, tableProfiles, ports.Filter{
		Where: []ports.Condition{ports.Eq("id", id)},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	u := userFromRow(rows[0])
	return &u, nil
}

// Create inserta el perfil. Un rol fuera de la lista del backend vuelve como ConstraintError.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	row := userToRow(user)
	if user.ID != "" {
		row["id"] = user.ID
	}
	rows, err := r.store.Insert(ctx, tableProfiles, []ports.Row{row})
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if len(rows) > 0 {
		created := userFromRow(rows[0])
		user.ID = created.ID
		user.Origin = created.Origin
	}
	return nil
}

// Update sobrescribe email, nombre y rol.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	if !remoteID(user.ID) {
		return fmt.Errorf("update user %s: %w", user.ID, domain.ErrUserNotFound)
	}
	if err := r.store.Update(ctx, tableProfiles, user.ID, userToRow(user)); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	user.Origin = entity.OriginRemote
	return nil
}

// Delete elimina el perfil.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if !remoteID(id) {
		return fmt.Errorf("delete user %s: %w", id, domain.ErrUserNotFound)
	}
	if err := r.store.Delete(ctx, tableProfiles, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
