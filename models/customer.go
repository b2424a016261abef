package models

import "time"

type Customer struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Name       string     `json:"name" gorm:"not null"`
	Email      string     `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Phone      string     `json:"phone"`
	Company    string     `json:"company"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt *time.Time `json:"modified_at"`
}
