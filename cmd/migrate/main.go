package main

import (
	"log"

	"ppods-be/internal/config"
	"ppods-be/pkg/database"
)

func main() {
	cfg := config.Load()

	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Printf("Running AutoMigrate on %s...", cfg.Database.Driver)
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	if cfg.Database.Driver == database.DriverPostgres {
		// Keeps updated_at honest for rows touched outside gorm.
		postMigrationSQL := []string{
			`CREATE OR REPLACE FUNCTION set_current_timestamp_updated_at() RETURNS trigger LANGUAGE plpgsql AS $$
			DECLARE _new_value TIMESTAMP WITH TIME ZONE;
			BEGIN
			  _new_value := now();
			  IF NEW.updated_at IS DISTINCT FROM _new_value THEN NEW.updated_at = _new_value; END IF;
			  RETURN NEW;
			END; $$;`,
			`DROP TRIGGER IF EXISTS set_user_profiles_updated_at ON user_profiles;`,
			`CREATE TRIGGER set_user_profiles_updated_at BEFORE UPDATE ON user_profiles
			 FOR EACH ROW EXECUTE FUNCTION set_current_timestamp_updated_at();`,
		}
		for _, sql := range postMigrationSQL {
			if err := db.Exec(sql).Error; err != nil {
				log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
			}
		}
	}

	log.Println("Success: Database migration completed.")
}
