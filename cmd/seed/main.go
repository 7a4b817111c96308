// Package main provides a tool to seed the database with test reading data.
//
// It creates a handful of users, anonymous devices, books across every
// reading status, sessions, and goals to exercise stats and quota features.
//
// Usage:
//
//	DATA_PATH=~/Shlf/data go run ./cmd/seed
//	DATA_PATH=~/Shlf/data go run ./cmd/seed --devices=5
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/johnyfernandes/Shlf-Backend/internal/auth"
	"github.com/johnyfernandes/Shlf-Backend/internal/domain"
	"github.com/johnyfernandes/Shlf-Backend/internal/id"
	"github.com/johnyfernandes/Shlf-Backend/internal/store/sqlite"
)

var (
	userCount   = flag.Int("users", 3, "Number of test users to create")
	deviceCount = flag.Int("devices", 2, "Number of anonymous devices to create")
)

var seedBooks = []struct {
	workID    string
	title     string
	author    string
	pageCount int
}{
	{"/works/OL27448W", "The Lord of the Rings", "J.R.R. Tolkien", 1178},
	{"/works/OL45804W", "Fantastic Mr Fox", "Roald Dahl", 96},
	{"/works/OL27479W", "The Hobbit", "J.R.R. Tolkien", 310},
	{"/works/OL15358691W", "The Name of the Wind", "Patrick Rothfuss", 662},
	{"/works/OL5735363W", "The Way of Kings", "Brandon Sanderson", 1007},
	{"/works/OL17930368W", "Project Hail Mary", "Andy Weir", 476},
	{"/works/OL20126932W", "Piranesi", "Susanna Clarke", 245},
	{"/works/OL1968368W", "Dune", "Frank Herbert", 412},
}

var statuses = []domain.ReadingStatus{
	domain.StatusWantToRead,
	domain.StatusReading,
	domain.StatusCompleted,
	domain.StatusDidNotFinish,
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Shlf/data")
	}
	dbPath := filepath.Join(dataPath, "shlf.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	ctx := context.Background()

	for u := range *userCount {
		userID, err := seedUser(ctx, s, u)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed user %d: %v\n", u, err)
			os.Exit(1)
		}
		fmt.Printf("Created user %s with library and goal\n", userID)
	}

	for range *deviceCount {
		deviceID := uuid.NewString()
		if err := seedDevice(ctx, s, deviceID); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to seed device: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created anonymous device %s with 3 books\n", deviceID)
	}

	fmt.Println("Done")
}

// seedUser creates a user with a handful of books, some sessions, and a
// goal for the current year.
func seedUser(ctx context.Context, s *sqlite.Store, n int) (string, error) {
	hash, err := auth.HashPassword("password123")
	if err != nil {
		return "", err
	}

	now := time.Now()
	user := &domain.User{
		ID:           id.MustGenerate("user"),
		Email:        fmt.Sprintf("reader%d@example.com", n+1),
		Username:     fmt.Sprintf("reader%d", n+1),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return "", err
	}

	var favorite *domain.Book
	for i, sb := range seedBooks[:4+rand.Intn(4)] {
		status := statuses[i%len(statuses)]
		book := makeBook(user.ID, "", sb.workID, sb.title, sb.author, sb.pageCount, status, now)
		if err := s.CreateBook(ctx, book); err != nil {
			return "", err
		}
		if favorite == nil {
			favorite = book
		}

		if status == domain.StatusReading || status == domain.StatusCompleted {
			if err := seedSessions(ctx, s, book); err != nil {
				return "", err
			}
		}
	}

	collection := &domain.Collection{
		ID:        id.MustGenerate("coll"),
		UserID:    user.ID,
		Name:      "Favorites",
		Icon:      domain.DefaultCollectionIcon,
		Color:     domain.DefaultCollectionColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateCollection(ctx, collection); err != nil {
		return "", err
	}
	if favorite != nil {
		if err := s.AddBookToCollection(ctx, collection.ID, favorite.ID, now); err != nil {
			return "", err
		}
	}

	target := 12 + rand.Intn(24)
	goal := &domain.ReadingGoal{
		ID:          id.MustGenerate("goal"),
		UserID:      user.ID,
		Year:        now.Year(),
		TargetBooks: target,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.CreateGoal(ctx, goal); err != nil {
		return "", err
	}

	return user.ID, nil
}

// seedDevice fills an anonymous device up to the default quota.
func seedDevice(ctx context.Context, s *sqlite.Store, deviceID string) error {
	now := time.Now()
	for i := range 3 {
		sb := seedBooks[rand.Intn(len(seedBooks))]
		workID := fmt.Sprintf("%s-%s-%d", sb.workID, deviceID[:8], i)
		book := makeBook("", deviceID, workID, sb.title, sb.author, sb.pageCount, domain.StatusWantToRead, now)
		if err := s.CreateBook(ctx, book); err != nil {
			return err
		}
	}
	return nil
}

// seedSessions logs a few consecutive reading sessions against a book.
func seedSessions(ctx context.Context, s *sqlite.Store, book *domain.Book) error {
	page := 0
	for i := range 2 + rand.Intn(3) {
		start := page
		end := start + 20 + rand.Intn(60)
		if end > book.PageCount {
			end = book.PageCount
		}
		duration := 20 + rand.Intn(70)
		day := time.Now().AddDate(0, 0, -(10 - i))

		session := &domain.ReadingSession{
			ID:        id.MustGenerate("sess"),
			BookID:    book.ID,
			StartPage: start,
			EndPage:   end,
			Duration:  &duration,
			Date:      day.Format("2006-01-02"),
			CreatedAt: day,
			UpdatedAt: day,
		}
		if err := s.CreateSession(ctx, session); err != nil {
			return err
		}
		page = end
		if page >= book.PageCount {
			break
		}
	}
	return nil
}

func makeBook(userID, deviceID, workID, title, author string, pageCount int, status domain.ReadingStatus, now time.Time) *domain.Book {
	book := &domain.Book{
		ID:            id.MustGenerate("book"),
		UserID:        userID,
		DeviceID:      deviceID,
		OpenLibraryID: workID,
		Title:         title,
		Authors:       []string{author},
		PageCount:     pageCount,
		ReadingStatus: status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	switch status {
	case domain.StatusReading:
		started := now.AddDate(0, 0, -14)
		book.StartedAt = &started
		book.CurrentPage = pageCount / 3
	case domain.StatusCompleted:
		started := now.AddDate(0, -2, 0)
		completed := now.AddDate(0, 0, -7)
		book.StartedAt = &started
		book.CompletedAt = &completed
		book.CurrentPage = pageCount
		rating := 3 + rand.Intn(3)
		book.Rating = &rating
	}
	return book
}
