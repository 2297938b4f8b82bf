// cmd/seeduser/main.go — creates or refreshes a registry user with a personal
// password. Usage: go run ./cmd/seeduser <username> <password> [role]
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ken6921-byte/zuinsurance-app/internal/infra"
	"github.com/ken6921-byte/zuinsurance-app/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("usage: seeduser <username> <password> [role]")
	}
	username := os.Args[1]
	password := os.Args[2]
	role := model.RoleUser
	if len(os.Args) > 3 {
		role = os.Args[3]
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		log.Fatalf("unknown role %q", role)
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "insurance_app.db"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := infra.NewDatabase(dbPath)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	user := model.User{Username: username, PasswordHash: string(hash), Role: role}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role"}),
	}).Create(&user)
	if result.Error != nil {
		log.Fatalf("upsert error: %v", result.Error)
	}
	fmt.Printf("user %q (%s) created/updated\n", username, role)
}
