package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mserebryaakov/boodai-storefront-service/pkg/postgres"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresStore struct {
	scp    *postgres.SchemaConnectionPool
	schema string
	log    *logrus.Entry
}

func NewPostgresStore(scp *postgres.SchemaConnectionPool, schema string, log *logrus.Entry) (*PostgresStore, error) {
	db, err := scp.GetConnectionPool(schema)
	if err != nil {
		return nil, err
	}

	if err := RunSchemaMigration(db); err != nil {
		return nil, fmt.Errorf("failed migrations for schema %s - %w", schema, err)
	}

	return &PostgresStore{
		scp:    scp,
		schema: schema,
		log:    log,
	}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	db, err := s.scp.GetConnectionPool(s.schema)
	if err != nil {
		return nil, err
	}

	var entry Entry
	err = db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return entry.Value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	db, err := s.scp.GetConnectionPool(s.schema)
	if err != nil {
		return err
	}

	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry)
	if result.Error != nil {
		return fmt.Errorf("failed to save key %s - %s", key, result.Error)
	}

	s.log.Debugf("saved %s (%d bytes)", key, len(value))
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	db, err := s.scp.GetConnectionPool(s.schema)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Where("key IN (?)", keys).Delete(&Entry{}).Error
}
