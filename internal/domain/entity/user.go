package entity

import "strings"

// Role rol cerrado del usuario. El remoto tiene su propia lista permitida (check constraint)
// que puede no estar sincronizada con esta.
type Role string

// Roles válidos para User (valores tal como se guardan en profiles.role).
const (
	RoleAdmin          Role = "ADMIN"
	RoleSupervisor     Role = "SUPERVISOR"
	RoleRepresentative Role = "REPRESENTATIVE"
)

// Roles lista los roles conocidos.
func Roles() []Role {
	return []Role{RoleAdmin, RoleSupervisor, RoleRepresentative}
}

// ParseRole normaliza un valor externo (sin distinguir mayúsculas). ok=false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleSupervisor, RoleRepresentative:
		return r, true
	}
	return "", false
}

// User representa un usuario del sistema.
// Password solo existe en la tabla local de credenciales de respaldo; nunca se guarda junto al perfil remoto.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Password string `json:"-"`
	Origin   Origin `json:"origin,omitempty"`
}
