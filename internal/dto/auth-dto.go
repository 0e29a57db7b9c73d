package dto

import "inventory-system/internal/entities"

type LoginDTO struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponseDTO struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	Account      *entities.Account `json:"account,omitempty"`
}

type MeDTO struct {
	Account *entities.Account `json:"account"`
	IsAdmin bool              `json:"is_admin"`
}
