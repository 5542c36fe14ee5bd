package entity

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                   int    `gorm:"primaryKey"`
	Name                 string `gorm:"not null"`
	Email                string `gorm:"uniqueIndex;not null"`
	Phone                string
	Role                 string `gorm:"not null;default:user"`
	EmailConfirmed       bool   `gorm:"not null"`
	PasswordHash         string `gorm:"not null" json:"-"`
	ConfirmCode          string
	ConfirmCodeExpiresAt int64
	CreatedAt            int64 `gorm:"not null"`
	UpdatedAt            int64 `gorm:"not null"`
}
