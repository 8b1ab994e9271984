package repository

import (
	"Palisade/internal/model"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.AutoMigrate(&model.Post{}, &model.PostRevision{}, &model.PostInteraction{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func seedPost(t *testing.T, db *gorm.DB, userID uint64, title, content string) *model.Post {
	t.Helper()

	post := &model.Post{
		UserID:  userID,
		Title:   title,
		Content: content,
		Status:  1,
	}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	return post
}
