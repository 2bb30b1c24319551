package models

import "time"

// Follow represents a directed subscription edge from a follower to an
// author. The composite unique index makes the pair unique at the store
// level so concurrent follow requests cannot create duplicates.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair" json:"follower_id"`
	AuthorID   uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair" json:"author_id"`
	Follower   User      `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Follow) TableName() string {
	return "follows"
}
