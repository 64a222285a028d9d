package models

import "time"

type ReportReason string

const (
	HARASSMENT       ReportReason = "HARASSMENT"
	SELF_HARM        ReportReason = "SELF_HARM"
	VIOLENCE         ReportReason = "VIOLENCE"
	RESTRICTED_ITEMS ReportReason = "RESTRICTED_ITEMS"
	NUDITY           ReportReason = "NUDITY"
	SCAM             ReportReason = "SCAM"
	MISINFORMATION   ReportReason = "MISINFORMATION"
	ILLEGAL_CONTENT  ReportReason = "ILLEGAL_CONTENT"
)

type ReportStatus string

const (
	ReportOpen      ReportStatus = "OPEN"
	ReportResolved  ReportStatus = "RESOLVED"
	ReportDismissed ReportStatus = "DISMISSED"
)

type Report struct {
	ID         string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PostID     string       `json:"postId" gorm:"column:post_id;type:uuid;not null"`
	ReportedBy string       `json:"reportedBy" gorm:"column:reported_by;type:uuid;not null"`
	Reason     ReportReason `json:"reason" gorm:"column:reason"`
	Status     ReportStatus `json:"status" gorm:"type:varchar(20);default:'OPEN'"`
	HandledBy  *string      `json:"handledBy" gorm:"column:handled_by;type:uuid"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

type ReportCreate struct {
	Reason ReportReason `json:"reason" binding:"required"`
}

type ReportReview struct {
	Status ReportStatus `json:"status" binding:"required"`
}

func (Report) TableName() string {
	return "reports"
}
