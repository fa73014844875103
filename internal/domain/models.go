// Package domain defines the persistence models for users, posts, and the
// demo car resource. These types are mapped with GORM and form the core data
// layer of the users API.
package domain

import (
	"time"
)

// User represents an end user identified by a system-generated UUID and,
// optionally, by one of two natural keys (email, sms) used for upsert
// matching.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username / Name: optional display attributes.
//   - Email: optional natural lookup key (indexed).
//   - SMS: optional secondary lookup key (indexed).
//   - CreatedAt / LastUpdated: timestamps managed by GORM.
//   - Posts: many-to-many association through users_and_posts.
type User struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Username    *string   `json:"username"     gorm:"type:varchar(255)"`
	Name        *string   `json:"name"         gorm:"type:varchar(255)"`
	Email       *string   `json:"email"        gorm:"type:varchar(255);index:idx_users_email"`
	SMS         *string   `json:"sms"          gorm:"type:varchar(64);column:sms;index:idx_users_sms"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated" gorm:"column:last_updated;autoUpdateTime"`

	// Posts authored by this user. The association rows live in the
	// users_and_posts join table; deleting a user does not cascade to posts.
	Posts []Post `json:"-" gorm:"many2many:users_and_posts;"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Post represents an article-like record linked to its authors through the
// users_and_posts join table. A post must reference at least one existing
// user at creation time; the association row is written together with the
// post itself.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Title: post title (required at the API boundary).
//   - Description / Content: optional body fields.
//   - CreatedAt / LastUpdated: timestamps managed by GORM.
//   - Users: owning users, eager-loaded wherever a response embeds the author.
type Post struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Title       *string   `json:"title"        gorm:"type:varchar(255)"`
	Description *string   `json:"description"  gorm:"type:text"`
	Content     *string   `json:"content"      gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated" gorm:"column:last_updated;autoUpdateTime"`

	// Users holds the post's authors. Deleting the post removes only the
	// association rows, never the users themselves.
	Users []User `json:"-" gorm:"many2many:users_and_posts;"`
}

// TableName returns the database table name for Post.
func (Post) TableName() string { return "posts" }

// Car is the template's demo resource. It exists to exercise the validation
// pipeline end to end (required fields, enum membership) and is persisted
// like any other entity.
type Car struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Brand       string    `json:"brand"       gorm:"type:varchar(255);not null"`
	Color       string    `json:"color"       gorm:"type:varchar(16);not null;check:color IN ('red','blue')"`
	IsPreowned  bool      `json:"is_preowned" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated" gorm:"column:last_updated;autoUpdateTime"`
}

// TableName returns the database table name for Car.
func (Car) TableName() string { return "cars" }

// CarColors lists the permitted Car.Color values in declared order. The
// validation translator renders enum-violation messages in this order.
var CarColors = []string{"red", "blue"}
