// 手动写入演示数据脚本
//
// 数据库为空时写入两门示例课程和对应的结业测验题目，
// 用于首次部署后的本地联调。重复执行不会产生重复数据。
//
// 用法: go run scripts/seed_demo_data.go

package main

import (
	"log"
	"os"

	"learnify_backend/internal/config"
	"learnify_backend/internal/model"
	"learnify_backend/pkg/database"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	var count int64
	if err := db.Model(&model.Course{}).Count(&count).Error; err != nil {
		log.Fatalf("查询课程失败: %v", err)
	}
	if count > 0 {
		log.Println("课程表已有数据，跳过演示数据写入")
		return
	}

	courses := []model.Course{
		{
			Title:       "Introduction to Python Programming",
			Description: "Learn the basics of the Python programming language.",
			ImageURL:    "images/py.jpg",
			Instructor:  "Dr. Python",
			Duration:    "4 weeks",
			Level:       "Beginner",
			Modules: []model.Module{
				{
					Title:    "Getting Started with Python",
					Content:  "Python is a high-level, interpreted programming language...",
					VideoURL: "https://www.youtube.com/embed/kqtD5dpn9C8",
					Order:    1,
				},
				{
					Title:    "Variables and Data Types",
					Content:  "Variables are used to store data values...",
					VideoURL: "https://www.youtube.com/embed/cQT33rt_9TE",
					Order:    2,
				},
			},
		},
		{
			Title:       "Data Science Fundamentals",
			Description: "Learn the basics of data science and analysis.",
			ImageURL:    "images/ds.jpg",
			Instructor:  "Dr. Data",
			Duration:    "6 weeks",
			Level:       "Intermediate",
			Modules: []model.Module{
				{
					Title:    "Introduction to Data Science",
					Content:  "Data Science combines statistics, scientific methods and domain knowledge...",
					VideoURL: "https://www.youtube.com/embed/X3paOmcrTjQ",
					Order:    1,
				},
			},
		},
	}

	for i := range courses {
		if err := db.Create(&courses[i]).Error; err != nil {
			log.Fatalf("写入课程失败: %v", err)
		}
	}

	questions := []model.QuizQuestion{
		{
			CourseID: courses[0].ID,
			Question: "What is Python?",
			Options: []model.QuizOption{
				{Key: "a", Text: "A snake"},
				{Key: "b", Text: "A programming language"},
				{Key: "c", Text: "A type of coffee"},
				{Key: "d", Text: "A video game"},
			},
			CorrectOption: "b",
		},
		{
			CourseID: courses[0].ID,
			Question: "Who created Python?",
			Options: []model.QuizOption{
				{Key: "a", Text: "Guido van Rossum"},
				{Key: "b", Text: "Bill Gates"},
				{Key: "c", Text: "Elon Musk"},
				{Key: "d", Text: "Steve Jobs"},
			},
			CorrectOption: "a",
		},
		{
			CourseID: courses[1].ID,
			Question: "What is the primary purpose of data cleaning in data science?",
			Options: []model.QuizOption{
				{Key: "a", Text: "To make data look pretty"},
				{Key: "b", Text: "To remove or correct corrupt, incomplete, or irrelevant data"},
				{Key: "c", Text: "To convert all data to text format"},
				{Key: "d", Text: "To compress data for storage"},
			},
			CorrectOption: "b",
		},
		{
			CourseID: courses[1].ID,
			Question: "Which of the following is NOT a common data science programming language?",
			Options: []model.QuizOption{
				{Key: "a", Text: "Python"},
				{Key: "b", Text: "R"},
				{Key: "c", Text: "Java"},
				{Key: "d", Text: "SQL"},
			},
			CorrectOption: "c",
		},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			log.Fatalf("写入测验题目失败: %v", err)
		}
	}

	log.Printf("演示数据写入完成：%d 门课程，%d 道测验题目", len(courses), len(questions))
}
