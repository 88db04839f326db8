package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/staffeo/camareros-api-go/pkg/auth"
	"github.com/staffeo/camareros-api-go/pkg/config"
	"github.com/staffeo/camareros-api-go/pkg/database"
)

// Creates a user account offline, without going through the admin API.
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	if len(os.Args) < 3 {
		fmt.Println("Usage: useradd <username> <password> [rol]")
		os.Exit(1)
	}

	username := os.Args[1]
	password := os.Args[2]
	rol := auth.RolCoordinador
	if len(os.Args) > 3 {
		rol = os.Args[3]
	}
	if rol != auth.RolAdmin && rol != auth.RolCoordinador {
		fmt.Println("Error: rol must be admin or coordinador")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		fmt.Printf("Error: could not hash password: %v\n", err)
		os.Exit(1)
	}

	db := database.InitDB(config.FromEnv())
	user := database.Usuario{Username: username, PasswordHash: hash, Rol: rol}
	if err := db.Create(&user).Error; err != nil {
		fmt.Printf("Error: could not create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User %s (%s) created\n", username, rol)
}
