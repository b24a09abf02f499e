package dto

// CreateUserRequest entrada para crear un perfil. La credencial se gestiona en el proveedor de auth.
type CreateUserRequest struct {
	ID    string `json:"id" validate:"omitempty,uuid"`
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
	Role  string `json:"role" validate:"required"`
}

// UpdateUserRequest entrada para actualizar un perfil; nil = sin cambio.
type UpdateUserRequest struct {
	Email *string `json:"email" validate:"omitempty,email"`
	Name  *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role  *string `json:"role"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Origin string `json:"origin"`
}

// UserListResponse lista de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT. Fallback indica que se autenticó contra la tabla local.
type LoginResponse struct {
	Token    string       `json:"token"`
	User     UserResponse `json:"user"`
	Fallback bool         `json:"fallback,omitempty"`
}
