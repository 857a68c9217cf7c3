package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseLevel qualifies the expected audience of a course.
type CourseLevel string

const (
	LevelBeginner     CourseLevel = "BEGINNER"
	LevelIntermediate CourseLevel = "INTERMEDIATE"
	LevelAdvanced     CourseLevel = "ADVANCED"
)

// Course is a published unit of learning content owned by an instructor.
type Course struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string      `gorm:"size:255;not null" json:"title"`
	Slug        string      `gorm:"uniqueIndex;size:255;not null" json:"slug"`
	Description string      `gorm:"size:4000" json:"description"`
	Thumbnail   string      `gorm:"size:500" json:"thumbnail,omitempty"`
	Level       CourseLevel `gorm:"size:20;default:BEGINNER" json:"level"`
	Price       float64     `gorm:"default:0" json:"price"`
	IsPublished bool        `gorm:"default:false;index" json:"isPublished"`

	InstructorID uint  `gorm:"index;not null" json:"instructorId"`
	Instructor   *User `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`

	Lessons []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

// Lesson is a single ordered item within a course.
type Lesson struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CourseID    uint   `gorm:"index;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"size:4000" json:"description,omitempty"`
	VideoURL    string `gorm:"size:500" json:"videoUrl,omitempty"`
	// Duration in minutes.
	Duration    int  `gorm:"default:0" json:"duration"`
	Order       int  `gorm:"not null;index:idx_lessons_course_order" json:"order"`
	IsPublished bool `gorm:"default:false" json:"isPublished"`
}
