package models

import "time"

type PartyModel struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	Role            string
	FullName        string
	PhoneNumber     string
	Email           string
	PayoutAccountID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (PartyModel) TableName() string {
	return "parties"
}
