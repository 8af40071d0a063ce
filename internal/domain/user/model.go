package user

// User mirrors the profile owned by the external identity provider. Rows
// are refreshed on every authenticated request and never created through
// any other path.
type User struct {
	UserID   int64  `gorm:"primaryKey;autoIncrement:false;column:user_id"`
	Username string `gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}
