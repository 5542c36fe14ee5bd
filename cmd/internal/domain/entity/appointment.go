package entity

const (
	StatusScheduled = "scheduled"
	StatusCancelled = "cancelled"
	StatusDone      = "done"
)

type Appointment struct {
	ID        int    `gorm:"primaryKey"`
	UserID    int    `gorm:"not null;index"` // References: users(id)
	ServiceID int    `gorm:"not null;index"` // References: services(id)
	Date      int64  `gorm:"not null"`
	TimeSlot  string `gorm:"not null"`
	Status    string `gorm:"not null;default:scheduled"`
	ImageURL  *string
	CreatedAt int64  `gorm:"not null"`
	UpdatedAt int64  `gorm:"not null"`

	// Relations
	User    User    `gorm:"foreignKey:UserID;references:ID"`
	Service Service `gorm:"foreignKey:ServiceID;references:ID"`
}
