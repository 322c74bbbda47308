package db

import "time"

// PostDateLayout is the long month-name form stamped on a post at creation.
const PostDateLayout = "January 02, 2006"

// Post 定义了文章模型
type Post struct {
	ID        uint   `gorm:"primaryKey"`
	AuthorID  *uint  `gorm:"index"`
	Author    *User  `gorm:"foreignKey:AuthorID"`
	Title     string `gorm:"size:250;uniqueIndex;not null"`
	Subtitle  string `gorm:"size:250;not null"`
	Date      string `gorm:"size:250;not null"`
	Body      string `gorm:"type:text;not null"`
	ImgURL    string `gorm:"column:img_url;size:250;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Comments []Comment `gorm:"foreignKey:PostID"`
}

// TableName 返回自定义表名
func (Post) TableName() string {
	return "blog_posts"
}

// AuthorName returns the display name of the author, or an empty string
// when the post has no (loaded) author.
func (p *Post) AuthorName() string {
	if p == nil || p.Author == nil {
		return ""
	}
	return p.Author.Name
}

// FormatPostDate renders t in PostDateLayout.
func FormatPostDate(t time.Time) string {
	return t.Format(PostDateLayout)
}
