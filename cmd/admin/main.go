// Command admin manages admin accounts from the shell.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"hikari/internal/config"
	"hikari/internal/database"
	"hikari/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>   - Promote user to admin")
		fmt.Println("  go run ./cmd/admin demote <user_id>    - Demote user from admin")
		fmt.Println("  go run ./cmd/admin list                - List all admins")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote":
		setRole(db, userIDArg(), models.RoleAdmin)
	case "demote":
		setRole(db, userIDArg(), models.RoleUser)
	case "list":
		listAdmins(db)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func userIDArg() uint {
	if len(os.Args) < 3 {
		fmt.Println("A user ID is required")
		os.Exit(1)
	}
	id, err := strconv.ParseUint(os.Args[2], 10, 32)
	if err != nil {
		log.Fatalf("Invalid user ID %q: %v", os.Args[2], err)
	}
	return uint(id)
}

func setRole(db *gorm.DB, userID uint, role string) {
	result := db.Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		log.Fatalf("Failed to update user %d: %v", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		log.Fatalf("User %d not found", userID)
	}
	fmt.Printf("User %d is now %s\n", userID, role)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("role = ?", models.RoleAdmin).Order("id").Find(&admins).Error; err != nil {
		log.Fatalf("Failed to list admins: %v", err)
	}
	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}
	for _, a := range admins {
		fmt.Printf("%d\t%s\t%s\n", a.ID, a.Username, a.Email)
	}
}
