package model

import "time"

// Garment is a single marketplace listing. PublisherID is set on creation and
// never reassigned; the foreign key cascades deletes from users.
type Garment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Type        string    `gorm:"size:255;index" json:"type"`
	Description string    `gorm:"type:text" json:"description"`
	Size        string    `gorm:"size:32" json:"size"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	PublisherID uint      `gorm:"not null;index" json:"publisher_id"`
	Publisher   *User     `gorm:"foreignKey:PublisherID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
