package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wellmate-ai/wellmate/pkg/common/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// resultModel is the persistence shape. Seq is the insertion-order
// tie-breaker for equal timestamps.
type resultModel struct {
	Seq            int64          `gorm:"primaryKey;autoIncrement;column:seq"`
	ID             uuid.UUID      `gorm:"column:id;uniqueIndex"`
	UserID         string         `gorm:"column:user_id;index:idx_results_user_ts"`
	Timestamp      int64          `gorm:"column:timestamp;index:idx_results_user_ts"`
	RawScore       float64        `gorm:"column:raw_score"`
	AdjustedScore  float64        `gorm:"column:adjusted_score"`
	Category       string         `gorm:"column:category"`
	Reason         string         `gorm:"column:reason"`
	Confidence     float64        `gorm:"column:confidence"`
	Recommendation datatypes.JSON `gorm:"column:recommendation"`
	CreatedAt      time.Time      `gorm:"column:created_at"`
}

func (resultModel) TableName() string { return "health_results" }

// ResultStore persists result records in Postgres.
type ResultStore struct {
	db *gorm.DB
}

func NewResultStore(db *gorm.DB) *ResultStore {
	return &ResultStore{db: db}
}

func (s *ResultStore) AutoMigrate() error {
	return s.db.AutoMigrate(&resultModel{})
}

func (s *ResultStore) Insert(ctx context.Context, record *models.ResultRecord) error {
	row, err := toRow(record)
	if err != nil {
		return PersistenceError{reason: err}
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return PersistenceError{reason: err}
	}
	return nil
}

func (s *ResultStore) LatestFor(ctx context.Context, userID string) (*models.ResultRecord, error) {
	var row resultModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("seq DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDomain(&row)
}

func (s *ResultStore) RecentFor(ctx context.Context, userID string, limit int) ([]models.ResultRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []resultModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Order("seq DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	records := make([]models.ResultRecord, 0, len(rows))
	for i := range rows {
		record, err := toDomain(&rows[i])
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, nil
}

func toRow(record *models.ResultRecord) (*resultModel, error) {
	payload, err := json.Marshal(record.Recommendation)
	if err != nil {
		return nil, err
	}
	return &resultModel{
		ID:             record.ID,
		UserID:         record.UserID,
		Timestamp:      record.Timestamp,
		RawScore:       record.Score.Raw,
		AdjustedScore:  record.Score.Adjusted,
		Category:       string(record.Score.Category),
		Reason:         record.Score.Reason,
		Confidence:     record.Score.Confidence,
		Recommendation: datatypes.JSON(payload),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

func toDomain(row *resultModel) (*models.ResultRecord, error) {
	var bundle models.RecommendationBundle
	if len(row.Recommendation) > 0 {
		if err := json.Unmarshal(row.Recommendation, &bundle); err != nil {
			return nil, err
		}
	}
	return &models.ResultRecord{
		ID:        row.ID,
		UserID:    row.UserID,
		Timestamp: row.Timestamp,
		Score: models.RiskScore{
			Raw:        row.RawScore,
			Adjusted:   row.AdjustedScore,
			Category:   models.RiskCategory(row.Category),
			Reason:     row.Reason,
			Confidence: row.Confidence,
		},
		Recommendation: bundle,
	}, nil
}
