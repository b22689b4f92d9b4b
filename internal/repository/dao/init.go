package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Category{},
		&Foundation{},
		&Period{},
		&Group{},
		&Article{},
		&Price{},
		&SellingPoint{},
		&User{},
		&Purchase{},
		&Reload{},
	)
}

// ResetTables drops every table of the public schema and migrates them again.
func ResetTables(db *gorm.DB) error {
	if err := dropAllTables(db); err != nil {
		return err
	}
	return InitTables(db)
}

func dropAllTables(db *gorm.DB) error {
	db.Exec("SET CONSTRAINTS ALL DEFERRED;")

	var tableNames []string
	if err := db.Table("information_schema.tables").
		Where("table_schema = ?", "public").
		Pluck("table_name", &tableNames).Error; err != nil {
		return err
	}

	for _, tableName := range tableNames {
		if err := db.Exec(`DROP TABLE IF EXISTS "` + tableName + `" CASCADE`).Error; err != nil {
			return err
		}
	}

	db.Exec("SET CONSTRAINTS ALL IMMEDIATE;")

	return nil
}
