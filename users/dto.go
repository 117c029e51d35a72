package users

// CreateUserRequest is the admin payload for provisioning an account.
type CreateUserRequest struct {
	Name           string  `json:"name" validate:"required,min=2,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8,max=72"`
	Role           string  `json:"role" validate:"omitempty,oneof=ADMIN USER"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}

// UpdateUserRequest is the admin partial-update payload; nil fields are left
// untouched. A new password is re-hashed before storage.
type UpdateUserRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Password       *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role           *string `json:"role" validate:"omitempty,oneof=ADMIN USER"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,url"`
}
