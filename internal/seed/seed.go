package seed

import (
	"fmt"
	"log"

	"aura/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers int
	NumPosts int
}

var demoHashtags = []string{
	"golang", "music", "hiking", "cooking", "photography",
	"books", "travel", "fitness", "art", "movies",
}

// Run seeds a small demo dataset with the default options.
func Run(db *gorm.DB) error {
	return Seed(db, Options{NumUsers: 20, NumPosts: 100})
}

// Seed populates the database with demo users, lists, friendships and
// posts. It assumes the General list already exists.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 20
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 100
	}
	log.Printf("seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	// Every third user gets a list of their own.
	lists := []uint{models.GeneralListID}
	for i, user := range users {
		if i%3 != 0 {
			continue
		}
		list, err := f.CreateList(user)
		if err != nil {
			return fmt.Errorf("create list: %w", err)
		}
		lists = append(lists, list.ID)
	}
	log.Printf("created %d lists", len(lists)-1)

	// A sparse friend mesh: each user befriends a couple of later users.
	friendships := 0
	for i, user := range users {
		for j := i + 1; j < len(users) && j <= i+2; j++ {
			if _, err := f.CreateFriendship(user, users[j]); err != nil {
				return fmt.Errorf("create friendship: %w", err)
			}
			friendships++
		}
	}
	log.Printf("created %d friendships", friendships)

	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]

		// Non-General lists require authorship by their owner; keep it
		// simple and let most demo posts land in General.
		listID := models.GeneralListID
		if f.rng.Intn(4) == 0 {
			listID = lists[f.rng.Intn(len(lists))]
			var list models.List
			if err := db.First(&list, listID).Error; err != nil {
				return err
			}
			if !list.IsGeneral() && list.OwnerID != author.ID {
				listID = models.GeneralListID
			}
		}

		post, err := f.CreatePost(author, listID)
		if err != nil {
			return fmt.Errorf("create post: %w", err)
		}

		if f.rng.Intn(2) == 0 {
			tag := demoHashtags[f.rng.Intn(len(demoHashtags))]
			if err := f.AttachHashtags(post, []string{tag}); err != nil {
				return fmt.Errorf("attach hashtags: %w", err)
			}
		}
	}
	log.Printf("created %d posts", opts.NumPosts)

	return nil
}
