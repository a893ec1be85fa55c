package archive

import (
	"context"

	"gorm.io/gorm"
)

type ITradeRepo interface {
	Create(ctx context.Context, record *TradeRecord) (*TradeRecord, error)
	BulkCreate(ctx context.Context, records []*TradeRecord) ([]*TradeRecord, error)
	ListBySymbol(ctx context.Context, symbol string, offset, limit int) ([]*TradeRecord, error)
	CountBySymbol(ctx context.Context, symbol string) (int64, error)
}

type TradeSQLRepo struct {
	db *gorm.DB
}

func NewTradeSQLRepo(db *gorm.DB) *TradeSQLRepo {
	return &TradeSQLRepo{
		db: db,
	}
}

func (s *TradeSQLRepo) dbWithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (r *TradeSQLRepo) Create(ctx context.Context, record *TradeRecord) (*TradeRecord, error) {
	return record, r.dbWithContext(ctx).Create(record).Error
}

func (r *TradeSQLRepo) BulkCreate(ctx context.Context, records []*TradeRecord) ([]*TradeRecord, error) {
	return records, r.dbWithContext(ctx).Create(records).Error
}

func (r *TradeSQLRepo) ListBySymbol(ctx context.Context, symbol string, offset, limit int) ([]*TradeRecord, error) {
	var records []*TradeRecord
	q := r.dbWithContext(ctx).
		Where("symbol = ?", symbol).
		Order("id asc").
		Offset(offset)
	if limit > 0 {
		q = q.Limit(limit)
	}
	return records, q.Find(&records).Error
}

func (r *TradeSQLRepo) CountBySymbol(ctx context.Context, symbol string) (int64, error) {
	var count int64
	err := r.dbWithContext(ctx).
		Model(&TradeRecord{}).
		Where("symbol = ?", symbol).
		Count(&count).Error
	return count, err
}
