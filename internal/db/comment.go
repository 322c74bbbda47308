package db

import "time"

// Comment is a reader's note on a post. Both foreign keys must point at existing rows.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	AuthorID  uint   `gorm:"index;not null"`
	Author    *User  `gorm:"foreignKey:AuthorID"`
	PostID    uint   `gorm:"index;not null"`
	Text      string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (Comment) TableName() string {
	return "comments"
}
