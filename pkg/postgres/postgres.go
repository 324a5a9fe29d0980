package postgres

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
	SSLMode  string
	TimeZone string
}

func (cfg Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.Username, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

// SchemaConnectionPool keeps one gorm pool per postgres schema and reopens
// a pool whose ping starts failing.
type SchemaConnectionPool struct {
	sync.Mutex
	pools              map[string]*gorm.DB
	dbConnectionString string
	pingInterval       time.Duration
	log                *logrus.Entry
}

func NewSchemaConnectionPool(cfg Config, log *logrus.Entry) *SchemaConnectionPool {
	return &SchemaConnectionPool{
		dbConnectionString: cfg.DSN(),
		pingInterval:       time.Second * 10,
		log:                log,
		pools:              make(map[string]*gorm.DB),
	}
}

func (scp *SchemaConnectionPool) GetConnectionPool(schemaName string) (*gorm.DB, error) {
	scp.Lock()
	defer scp.Unlock()

	if pool, ok := scp.pools[schemaName]; ok {
		return pool, nil
	}

	db, err := scp.open(schemaName)
	if err != nil {
		return nil, err
	}

	var count int64
	db.Raw("SELECT COUNT(*) FROM pg_namespace WHERE nspname = ?", schemaName).Scan(&count)
	if count == 0 {
		return nil, fmt.Errorf("schema not found: %s", schemaName)
	}

	scp.pools[schemaName] = db
	scp.log.Infof("opened connection pool for schema %s", schemaName)

	go scp.keepAlive(schemaName, db)

	return db, nil
}

func (scp *SchemaConnectionPool) open(schemaName string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(scp.dbConnectionString), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.Exec("SET search_path TO " + schemaName).Error; err != nil {
		return nil, err
	}

	return db, nil
}

func (scp *SchemaConnectionPool) keepAlive(schemaName string, db *gorm.DB) {
	ticker := time.NewTicker(scp.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		sqlDB, err := db.DB()
		if err == nil && sqlDB.Ping() == nil {
			continue
		}

		fresh, err := scp.open(schemaName)
		if err != nil {
			scp.log.Warnf("reconnect %s pool failed: %v", schemaName, err)
			continue
		}

		scp.Lock()
		scp.pools[schemaName] = fresh
		scp.Unlock()
		db = fresh

		scp.log.Infof("succes ping %s pool", schemaName)
	}
}
