package db

import "time"

// Roles a User can hold. Exactly one account, the first one registered, is RoleAdmin.
const (
	RoleAdmin  = "admin"
	RoleReader = "reader"
)

// User 定义了注册用户模型，Password 仅保存 bcrypt 哈希。
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"size:250;uniqueIndex;not null"`
	Password  string `gorm:"size:250;not null"`
	Name      string `gorm:"size:250;not null"`
	Role      string `gorm:"size:20;not null;default:reader"`
	// AdminSlot is set only on the administrator. Its unique index makes the
	// database reject a second one; NULLs never collide.
	AdminSlot *int `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Posts    []Post    `gorm:"foreignKey:AuthorID"`
	Comments []Comment `gorm:"foreignKey:AuthorID"`
}

// TableName 返回自定义表名
func (User) TableName() string {
	return "users"
}

// MakeAdmin marks u as the administrator.
func (u *User) MakeAdmin() {
	slot := 1
	u.Role = RoleAdmin
	u.AdminSlot = &slot
}

// MakeReader clears any administrator marking from u.
func (u *User) MakeReader() {
	u.Role = RoleReader
	u.AdminSlot = nil
}

// IsAdmin reports whether the user may author, edit and delete posts.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
