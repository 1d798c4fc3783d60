package domain

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name         string `gorm:"column:name;type:varchar(255);not null"`
	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	IsAdmin      bool   `gorm:"column:is_admin;not null;default:false"`
}

func (User) TableName() string { return "users" }

func NewUser(name, email, passwordHash string, isAdmin bool) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
}
