package models

import "gorm.io/gorm"

const (
	RoleClient   = "CLIENT"
	RoleEmployee = "EMPLOYE"
	RoleAdmin    = "ADMIN"
)

type User struct {
	gorm.Model
	Fullname               string `json:"fullname"`
	Email                  string `json:"email" gorm:"uniqueIndex"`
	Phone                  string `json:"phone"`
	Password               string `json:"password"`
	Role                   string `json:"role"`
	AccountActivated       bool   `json:"accountActivated"`
	AccountActivationToken string `json:"-"`
	PasswordResetToken     string `json:"-"`
}

type LoginData struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}
