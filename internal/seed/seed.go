// Package seed populates a development database with sample content.
package seed

import (
	"fmt"
	"log"
	"math/rand"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password assigned to every seeded account.
const DefaultPassword = "password123"

var groups = []models.Group{
	{Title: "Poetry", Slug: "poetry", Description: "Verse in every form"},
	{Title: "Essays", Slug: "essays", Description: "Longform opinions and analysis"},
	{Title: "Short Stories", Slug: "short-stories", Description: "Fiction under 5000 words"},
	{Title: "Travel Notes", Slug: "travel-notes", Description: "Dispatches from the road"},
}

// Run fills the database with users, groups, posts, comments and follow
// edges. It is idempotent enough for development: seeding twice simply
// skips users whose username is already taken.
func Run(db *gorm.DB, userCount, postsPerUser int) error {
	gofakeit.Seed(42)
	rng := rand.New(rand.NewSource(42))

	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	for i := range groups {
		if err := db.Where(models.Group{Slug: groups[i].Slug}).FirstOrCreate(&groups[i]).Error; err != nil {
			return fmt.Errorf("seed group %q: %w", groups[i].Slug, err)
		}
	}

	users := make([]*models.User, 0, userCount)
	for i := 0; i < userCount; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s_%d", gofakeit.Username(), i),
			Email:    gofakeit.Email(),
			Password: string(hashed),
			Bio:      gofakeit.Sentence(10),
			IsAdmin:  i == 0,
		}
		if err := db.Where(models.User{Username: user.Username}).FirstOrCreate(user).Error; err != nil {
			return fmt.Errorf("seed user %q: %w", user.Username, err)
		}
		users = append(users, user)
	}

	var posts []*models.Post
	for _, user := range users {
		for i := 0; i < postsPerUser; i++ {
			post := &models.Post{
				Text:   gofakeit.Paragraph(1, 3, 12, " "),
				UserID: user.ID,
			}
			// Roughly two thirds of posts go into a group.
			if rng.Intn(3) > 0 {
				post.GroupID = &groups[rng.Intn(len(groups))].ID
			}
			if err := db.Create(post).Error; err != nil {
				return fmt.Errorf("seed post: %w", err)
			}
			posts = append(posts, post)
		}
	}

	for _, post := range posts {
		for i := 0; i < rng.Intn(4); i++ {
			comment := &models.Comment{
				Text:   gofakeit.Sentence(8),
				UserID: users[rng.Intn(len(users))].ID,
				PostID: post.ID,
			}
			if err := db.Create(comment).Error; err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
		}
	}

	for _, follower := range users {
		for i := 0; i < 3; i++ {
			author := users[rng.Intn(len(users))]
			if author.ID == follower.ID {
				continue
			}
			err := db.Exec(
				"INSERT INTO follows (follower_id, author_id, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (follower_id, author_id) DO NOTHING",
				follower.ID, author.ID,
			).Error
			if err != nil {
				return fmt.Errorf("seed follow: %w", err)
			}
		}
	}

	log.Printf("Seeded %d users, %d groups, %d posts (password for all accounts: %s)",
		len(users), len(groups), len(posts), DefaultPassword)
	return nil
}
