package repository

import (
	"context"
	"time"

	auditdomain "github.com/carelinkhq/carelink/internal/audit/domain"
	"github.com/carelinkhq/carelink/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() auditdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *auditdomain.AuditLog) error {
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, req auditdomain.ListAuditLogRequest) ([]*auditdomain.AuditLog, error) {
	stmt := db.WithContext(ctx).Model(&auditdomain.AuditLog{})

	if req.Action != "" {
		stmt = stmt.Where("action = ?", req.Action)
	}
	if req.TargetType != "" {
		stmt = stmt.Where("target_type = ?", req.TargetType)
	}
	if req.TargetID != "" {
		stmt = stmt.Where("target_id = ?", req.TargetID)
	}
	if req.ActorID != "" {
		stmt = stmt.Where("actor_id = ?", req.ActorID)
	}
	if req.StartAt != nil {
		stmt = stmt.Where("created_at >= ?", *req.StartAt)
	}
	if req.EndAt != nil {
		stmt = stmt.Where("created_at <= ?", *req.EndAt)
	}

	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, auditdomain.ErrInvalidPageToken
		}
		if cursor.CreatedAt != "" {
			before, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
			if err != nil {
				return nil, auditdomain.ErrInvalidPageToken
			}
			stmt = stmt.Where("created_at < ?", before)
		}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	var entries []*auditdomain.AuditLog
	err := stmt.
		Order("created_at desc, id desc").
		Limit(pageSize + 1).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
