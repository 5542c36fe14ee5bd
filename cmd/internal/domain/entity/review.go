package entity

type Review struct {
	ID        int `gorm:"primaryKey"`
	UserID    int `gorm:"not null;index"` // References: users(id)
	ServiceID int `gorm:"not null;index"` // References: services(id)
	Rating    int `gorm:"not null"`
	Comment   string
	CreatedAt int64 `gorm:"not null"`
	UpdatedAt int64 `gorm:"not null"`

	// Relations
	User    User    `gorm:"foreignKey:UserID;references:ID"`
	Service Service `gorm:"foreignKey:ServiceID;references:ID"`
}
