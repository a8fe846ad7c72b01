package main

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"conduit/internal/database"
	"conduit/internal/domain"
	slugpkg "conduit/internal/pkg/slug"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var sampleTitles = []string{
	"How to Train Your Dragon",
	"Ten Tips for Better Go",
	"Why Slugs Matter",
	"Feeds Without Caches",
	"Favorites Considered Helpful",
	"Profiles and Projections",
}

var sampleTags = []string{"dragons", "training", "go", "webdev", "databases"}

func main() {
	_ = godotenv.Load()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	db, err := database.Connect("conduit.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Article{},
		&domain.Tag{},
		&domain.ArticleTag{},
		&domain.Favorite{},
		&domain.Follow{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM favorites")
	db.Exec("DELETE FROM follows")
	db.Exec("DELETE FROM article_tags")
	db.Exec("DELETE FROM articles")
	db.Exec("DELETE FROM tags")
	db.Exec("DELETE FROM users")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Seeding users...")
	users := make([]domain.User, 0, 5)
	for i := 0; i < 5; i++ {
		suffix := strings.Split(uuid.NewString(), "-")[0]
		users = append(users, domain.User{
			Username:     fmt.Sprintf("writer_%s", suffix),
			Email:        fmt.Sprintf("writer_%s@example.com", suffix),
			PasswordHash: string(hash),
			Bio:          "Seeded demo account",
		})
	}
	if err := db.Create(&users).Error; err != nil {
		log.Fatal(err)
	}

	log.Println("Seeding tags...")
	tags := make([]domain.Tag, 0, len(sampleTags))
	for _, name := range sampleTags {
		tags = append(tags, domain.Tag{Name: name})
	}
	if err := db.Create(&tags).Error; err != nil {
		log.Fatal(err)
	}

	log.Println("Seeding articles...")
	for i, title := range sampleTitles {
		author := users[i%len(users)]
		a := domain.Article{
			Slug:        slugpkg.Make(title),
			Title:       title,
			Description: fmt.Sprintf("Seeded article #%d", i+1),
			Body:        "Lorem ipsum dolor sit amet.",
			AuthorID:    author.ID,
		}
		if err := db.Create(&a).Error; err != nil {
			log.Fatal(err)
		}

		// Two random tags per article
		picked := rng.Perm(len(tags))[:2]
		for _, idx := range picked {
			link := domain.ArticleTag{ArticleID: a.ID, TagID: tags[idx].ID}
			if err := db.Create(&link).Error; err != nil {
				log.Fatal(err)
			}
		}

		// A few favorites from other users
		for _, u := range users {
			if u.ID == author.ID || rng.Intn(2) == 0 {
				continue
			}
			fav := domain.Favorite{UserID: u.ID, ArticleID: a.ID}
			if err := db.Create(&fav).Error; err != nil {
				log.Fatal(err)
			}
		}
	}

	log.Println("Seeding follows...")
	for i := range users {
		follow := domain.Follow{
			FollowerID: users[i].ID,
			FolloweeID: users[(i+1)%len(users)].ID,
		}
		if err := db.Create(&follow).Error; err != nil {
			log.Fatal(err)
		}
	}

	log.Println("Seed complete.")
}
