package models

// Client is a customer or vendor a transaction can be attributed to.
type Client struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
	Notes       string `json:"notes"`
}
