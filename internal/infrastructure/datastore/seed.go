package datastore

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

var _ ports.CredentialFallback = (*SeedDirectory)(nil)

// seedUsers usuarios de demostración. IDs cortos: nunca existieron en el remoto.
var seedUsers = []entity.User{
	{ID: "u1", Email: "admin@pedidos.local", Name: "Ana Administradora", Role: entity.RoleAdmin, Password: "admin123"},
	{ID: "u2", Email: "supervisor@pedidos.local", Name: "Sérgio Supervisor", Role: entity.RoleSupervisor, Password: "super123"},
	{ID: "u3", Email: "representante@pedidos.local", Name: "Rafael Representante", Role: entity.RoleRepresentative, Password: "repre123"},
}

// SeedUsers copia de la lista semilla sin contraseñas y marcada como local.
func SeedUsers() []entity.User {
	out := make([]entity.User, len(seedUsers))
	for i, u := range seedUsers {
		u.Password = ""
		u.Origin = entity.OriginLocal
		out[i] = u
	}
	return out
}

func seedUserByID(id string) (*entity.User, bool) {
	for _, u := range SeedUsers() {
		if u.ID == id {
			return &u, true
		}
	}
	return nil, false
}

type seedCredential struct {
	user entity.User
	hash []byte
}

// SeedDirectory tabla local de credenciales de respaldo (solo desarrollo/demo).
type SeedDirectory struct {
	creds map[string]seedCredential
}

// NewSeedDirectory guarda las contraseñas semilla como hash bcrypt.
func NewSeedDirectory() (*SeedDirectory, error) {
	d := &SeedDirectory{creds: make(map[string]seedCredential, len(seedUsers))}
	for _, u := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		u.Password = ""
		u.Origin = entity.OriginLocal
		d.creds[strings.ToLower(u.Email)] = seedCredential{user: u, hash: hash}
	}
	return d, nil
}

// Authenticate compara contra la tabla semilla.
func (d *SeedDirectory) Authenticate(_ context.Context, email, password string) (*entity.User, bool) {
	c, ok := d.creds[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword(c.hash, []byte(password)) != nil {
		return nil, false
	}
	u := c.user
	return &u, true
}
