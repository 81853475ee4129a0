package store

import "time"

// Contact is a saved transfer recipient. Only a name plus an email or phone
// number is kept; wallet addresses are never stored.
type Contact struct {
	ID        uint      `db:"id"         json:"id"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`

	Name  string `db:"name"  json:"name"`
	Email string `db:"email" json:"email,omitempty"`
	Phone string `db:"phone" json:"phone,omitempty"`
}

// SavedService is a utility or subscription the user pays regularly.
type SavedService struct {
	ID        uint      `db:"id"         json:"id"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`

	Name          string `db:"name"           json:"name"`
	Provider      string `db:"provider"       json:"provider,omitempty"`
	AccountNumber string `db:"account_number" json:"account_number,omitempty"`
}
