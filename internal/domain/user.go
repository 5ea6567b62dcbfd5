package domain

import "time"

type User struct {
	ID            UserID    `gorm:"type:uuid;primaryKey" db:"id" json:"uid"`
	Username      string    `gorm:"type:citext;uniqueIndex:ux_users_username" db:"username" json:"username"`
	FirstName     string    `gorm:"type:text;not null" db:"first_name" json:"firstName"`
	LastName      string    `gorm:"type:text;not null" db:"last_name" json:"lastName"`
	Email         string    `gorm:"type:citext;uniqueIndex:ux_users_email" db:"email" json:"email"`
	MobileNumber  string    `gorm:"type:text;uniqueIndex:ux_users_mobile" db:"mobile_number" json:"mobileNumber"`
	PasswordHash  string    `gorm:"type:text;not null" db:"password_hash" json:"-"`
	PhoneVerified bool      `gorm:"not null;default:false" db:"phone_verified" json:"phoneVerified"`
	CreatedAt     time.Time `gorm:"not null" db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" db:"updated_at" json:"-"`
}

func (User) TableName() string { return "users" }
