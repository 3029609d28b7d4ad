package models

import (
	"github.com/bizflow/backend/internal/domain/identity"
)

// UserModel is the persistence model for identity.User
type UserModel struct {
	TenantAggregateModel
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex:idx_user_tenant_username,priority:2"`
	PasswordHash string `gorm:"type:varchar(200);not null"`
	DisplayName  string `gorm:"type:varchar(200)"`
	IsActive     bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		IsActive:     m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&user.TenantAggregateRoot)
	return user
}

// UserModelFromDomain converts a domain user to the persistence model
func UserModelFromDomain(user *identity.User) *UserModel {
	model := &UserModel{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		DisplayName:  user.DisplayName,
		IsActive:     user.IsActive,
	}
	model.FromDomainTenantAggregateRoot(user.TenantAggregateRoot)
	return model
}
