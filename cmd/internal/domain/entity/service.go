package entity

type Service struct {
	ID              int    `gorm:"primaryKey"`
	Name            string `gorm:"not null"`
	Description     string
	PriceCents      int64  `gorm:"not null"`
	DurationMinutes int    `gorm:"not null"`
	Type            string `gorm:"not null"`
	ImageURL        *string
	CreatedAt       int64 `gorm:"not null"`
	UpdatedAt       int64 `gorm:"not null"`
}
