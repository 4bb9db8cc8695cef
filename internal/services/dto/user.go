package dto

// UpdateProfileRequest - частичное обновление профиля
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	NewPassword *string `json:"new_password,omitempty" validate:"omitempty,min=6"`
	// Требуется при смене пароля
	OldPassword *string `json:"old_password,omitempty"`
}
