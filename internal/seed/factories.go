// Package seed provides helpers to create demo data for development
// databases. Never run against production.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"aura/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a sample user. All seeded accounts share the
// password "password123" so they are usable in local testing.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:          gofakeit.Email(),
		Password:       string(hashed),
		DisplayName:    gofakeit.Name(),
		Bio:            gofakeit.Sentence(10),
		Avatar:         fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		DefaultPrivacy: f.randomPrivacy(),
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateList persists a list owned by the given user.
func (f *Factory) CreateList(owner *models.User, overrides ...func(*models.List)) (*models.List, error) {
	list := &models.List{
		Name:         gofakeit.HipsterWord() + " " + gofakeit.NounCollectiveThing(),
		Description:  gofakeit.Sentence(8),
		OwnerID:      owner.ID,
		PrivacyLevel: f.randomPrivacy(),
	}
	for _, override := range overrides {
		override(list)
	}
	if err := f.db.Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CreatePost persists a post by the given user into the given list, with a
// realistic created_at spread over the past 90 days.
func (f *Factory) CreatePost(user *models.User, listID uint, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:   gofakeit.Sentence(5),
		Content: gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:  user.ID,
		ListID:  listID,
		Privacy: f.randomPrivacy(),
	}
	post.CreatedAt = time.Now().
		Add(-time.Duration(f.rng.Intn(90)) * 24 * time.Hour).
		Add(-time.Duration(f.rng.Intn(24)) * time.Hour)

	switch f.rng.Intn(4) {
	case 0:
		post.LinkURL = gofakeit.URL()
	case 1:
		post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID())
	case 2:
		date := time.Now().Add(time.Duration(1+f.rng.Intn(30)) * 24 * time.Hour)
		post.EventDate = &date
		post.AllowRSVP = true
	}

	for _, override := range overrides {
		override(post)
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateFriendship persists an accepted friendship between two users.
func (f *Factory) CreateFriendship(requester, addressee *models.User) (*models.Friendship, error) {
	friendship := &models.Friendship{
		RequesterID: requester.ID,
		AddresseeID: addressee.ID,
		Status:      models.FriendshipStatusAccepted,
	}
	if err := f.db.Create(friendship).Error; err != nil {
		return nil, err
	}
	return friendship, nil
}

// AttachHashtags ensures the tags exist and links them to the post.
func (f *Factory) AttachHashtags(post *models.Post, tags []string) error {
	for _, raw := range tags {
		tag := models.Hashtag{Tag: raw}
		if err := f.db.Where("tag = ?", raw).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		if err := f.db.Exec(
			"INSERT INTO post_hashtags (post_id, hashtag_id) VALUES (?, ?)",
			post.ID, tag.ID,
		).Error; err != nil {
			return err
		}
	}
	return nil
}

func (f *Factory) randomPrivacy() models.Privacy {
	switch f.rng.Intn(10) {
	case 0, 1:
		return models.PrivacyConnections
	case 2:
		return models.PrivacyPrivate
	default:
		return models.PrivacyPublic
	}
}
