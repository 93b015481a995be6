package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Doctor struct {
	ID              snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	Slug            string       `json:"slug" gorm:"column:slug;uniqueIndex"`
	Name            string       `json:"name" gorm:"column:name"`
	Specialty       string       `json:"specialty" gorm:"column:specialty"`
	YearsExperience int          `json:"yearsExperience" gorm:"column:years_experience"`
	ImageURL        string       `json:"imageUrl" gorm:"column:image_url"`
	CreatedAt       time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt       time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}
