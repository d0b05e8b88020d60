package database

import (
	"fmt"
	"log"

	"learnify_backend/internal/config"
	"learnify_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Module{},
		&model.Enrollment{},
		&model.Progress{},
		&model.QuizQuestion{},
		&model.QuizAttempt{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Streak{},
		&model.Certificate{},
		&model.ChatMessage{},
	)
	if err != nil {
		return err
	}

	return SeedAchievements(db)
}

// SeedAchievements 徽章目录为空时写入默认的六枚徽章
func SeedAchievements(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Achievement{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []model.Achievement{
		{Title: "First Steps", Description: "Enrolled in your first course", BadgeID: model.BadgeFirstSteps},
		{Title: "Course Graduate", Description: "Completed your first course", BadgeID: model.BadgeCourseGraduate},
		{Title: "Perfect Score", Description: "Scored 100% on a quiz", BadgeID: model.BadgePerfectScore},
		{Title: "Weekly Warrior", Description: "Maintained a 7-day learning streak", BadgeID: model.BadgeWeeklyWarrior},
		{Title: "Monthly Master", Description: "Maintained a 30-day learning streak", BadgeID: model.BadgeMonthlyMaster},
		{Title: "Learning Enthusiast", Description: "Completed 5 courses", BadgeID: model.BadgeLearningEnthusiast},
	}
	for _, a := range defaults {
		if err := db.Create(&a).Error; err != nil {
			return err
		}
	}
	return nil
}
