package models

// Company is a business entity transactions are booked against.
type Company struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
}
