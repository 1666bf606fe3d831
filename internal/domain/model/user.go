package model

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	UserID       uint   `gorm:"primaryKey" json:"user_id"`
	UserName     string `gorm:"not null;type:varchar(100)" json:"user_name"`
	UserEmail    string `gorm:"unique;not null;type:varchar(100)" json:"user_email"`
	UserPhone    string `gorm:"type:varchar(50)" json:"user_phone"`
	PasswordHash string `gorm:"not null;type:varchar(255)" json:"-"`
	Role         string `gorm:"not null;type:varchar(20);default:customer" json:"role"`
	BaseModel
}
