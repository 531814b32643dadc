// internal/models/product.go
package models

import (
	"time"
)

type Product struct {
	ID              uint64        `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name            string        `json:"name" gorm:"size:255;not null"`
	Description     string        `json:"description" gorm:"type:text;not null"`
	CurrentLocation string        `json:"current_location" gorm:"size:255"`
	CurrentOwner    string        `json:"current_owner" gorm:"size:128;not null;index"`
	Status          ProductStatus `json:"status" gorm:"type:smallint;not null;index"`
	CreatedBy       string        `json:"created_by" gorm:"size:128;not null;index"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
