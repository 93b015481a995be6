package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Conversation struct {
	ID        snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	PatientID string       `json:"patientId" gorm:"column:patient_id;uniqueIndex:idx_conversation_pair"`
	DoctorID  snowflake.ID `json:"doctorId" gorm:"column:doctor_id;uniqueIndex:idx_conversation_pair"`
	CreatedAt time.Time    `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

type Message struct {
	ID             snowflake.ID `json:"id" gorm:"column:id;primaryKey"`
	ConversationID snowflake.ID `json:"conversationId" gorm:"column:conversation_id;index"`
	SenderID       string       `json:"senderId" gorm:"column:sender_id"`
	Body           string       `json:"body" gorm:"column:body"`
	CreatedAt      time.Time    `json:"createdAt" gorm:"column:created_at"`
}

func (Message) TableName() string {
	return "messages"
}
