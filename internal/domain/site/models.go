package site

import "time"

// Company is the operator profile shown on /company. A single row is expected.
type Company struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `json:"name"`
	PostalCode        string    `gorm:"size:7" json:"postal_code"`
	Address           string    `json:"address"`
	Representative    string    `json:"representative"`
	EstablishmentDate string    `json:"establishment_date"`
	Capital           string    `json:"capital"`
	Business          string    `gorm:"type:text" json:"business"`
	NumberOfEmployees string    `json:"number_of_employees"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Term holds the terms of service. A single row is expected.
type Term struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
