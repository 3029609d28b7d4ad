package models

import (
	"github.com/bizflow/backend/internal/domain/webhook"
)

// SubscriptionModel is the persistence model for webhook.Subscription
type SubscriptionModel struct {
	TenantAggregateModel
	TargetURL string `gorm:"type:varchar(500);not null"`
	Events    string `gorm:"type:varchar(500);not null;default:'*'"`
	Secret    string `gorm:"type:varchar(200)"`
	IsActive  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "webhook_subscriptions"
}

// ToDomain converts the model to a domain subscription
func (m *SubscriptionModel) ToDomain() *webhook.Subscription {
	sub := &webhook.Subscription{
		TargetURL: m.TargetURL,
		Events:    m.Events,
		Secret:    m.Secret,
		IsActive:  m.IsActive,
	}
	m.PopulateTenantAggregateRoot(&sub.TenantAggregateRoot)
	return sub
}

// SubscriptionModelFromDomain converts a domain subscription to the persistence model
func SubscriptionModelFromDomain(sub *webhook.Subscription) *SubscriptionModel {
	model := &SubscriptionModel{
		TargetURL: sub.TargetURL,
		Events:    sub.Events,
		Secret:    sub.Secret,
		IsActive:  sub.IsActive,
	}
	model.FromDomainTenantAggregateRoot(sub.TenantAggregateRoot)
	return model
}
