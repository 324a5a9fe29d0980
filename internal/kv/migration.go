package kv

import "gorm.io/gorm"

func RunSchemaMigration(db *gorm.DB) error {
	migrator := db.Migrator()

	if !migrator.HasTable(&Entry{}) {
		return db.AutoMigrate(&Entry{})
	}

	return nil
}
