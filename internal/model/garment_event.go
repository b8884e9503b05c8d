package model

import "time"

type GarmentEventKind string

const (
	GarmentPublished   GarmentEventKind = "published"
	GarmentUpdated     GarmentEventKind = "updated"
	GarmentUnpublished GarmentEventKind = "unpublished"
)

type GarmentEvent struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	GarmentID   uint             `gorm:"not null;index" json:"garment_id"`
	PublisherID uint             `gorm:"not null" json:"publisher_id"`
	ActorID     uint             `gorm:"not null" json:"actor_id"`
	Kind        GarmentEventKind `gorm:"size:16;not null" json:"kind"`
	Price       float64          `json:"price"`
	OccurredAt  time.Time        `gorm:"not null;index" json:"occurred_at"`
}
