package models

import (
	"time"
)

type DisputeModel struct {
	ID              string  `gorm:"primaryKey;type:uuid"`
	OrderID         *string `gorm:"type:uuid"`
	HubID           string
	HubName         string
	Region          string
	Commodity       string
	Issue           string `gorm:"type:text"`
	AnomalyType     string
	Severity        string
	Status          string
	ConfidenceScore float64
	Source          string
	LastActionAt    *time.Time
	Events          []DisputeEventModel `gorm:"foreignKey:DisputeID;references:ID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DisputeModel) TableName() string {
	return "disputes"
}

type DisputeEventModel struct {
	ID             string `gorm:"primaryKey;type:uuid"`
	DisputeID      string `gorm:"type:uuid;index"`
	Action         string
	ActorRole      string
	Message        string
	PreviousStatus string
	NextStatus     string
	CreatedAt      time.Time
}

func (DisputeEventModel) TableName() string {
	return "dispute_events"
}
