package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"desadarit/internal/auth"
	"desadarit/internal/config"
	"desadarit/internal/database"
)

// cmd/admin creates an admin account with a random one-time password. Admin
// accounts are never created through the API.
func main() {
	var (
		username = flag.String("username", "", "admin username (required)")
		name     = flag.String("name", "", "display name (defaults to username)")
		role     = flag.String("role", "admin", "account role")
		dbHost   = flag.String("db-host", "", "database host (falls back to DATABASE_HOST)")
		dbPort   = flag.Int("db-port", 0, "database port (falls back to DATABASE_PORT)")
		dbName   = flag.String("db-name", "", "database name (falls back to MYSQL_DATABASE)")
		dbUser   = flag.String("db-user", "", "database user (falls back to MYSQL_USER)")
		dbPass   = flag.String("db-password", "", "database password (falls back to MYSQL_PASSWORD)")
	)
	flag.Parse()

	u := strings.TrimSpace(*username)
	if u == "" {
		log.Fatal("missing required flag: --username")
	}

	displayName := strings.TrimSpace(*name)
	if displayName == "" {
		displayName = u
	}

	dbCfg, err := loadDatabaseConfig(*dbHost, *dbPort, *dbName, *dbUser, *dbPass)
	if err != nil {
		log.Fatalf("load database config: %v", err)
	}

	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	if err := db.AutoMigrate(&database.User{}); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	var existing database.User
	switch err := db.Where("username = ?", u).First(&existing).Error; {
	case err == nil:
		log.Fatalf("user %q already exists", u)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		log.Fatalf("query user: %v", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	user := database.User{
		Username: u,
		Password: hashed,
		Name:     displayName,
		Role:     *role,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create user: %v", err)
	}

	fmt.Printf("Admin account created:\n")
	fmt.Printf("  username: %s\n", u)
	fmt.Printf("  password: %s\n", password)
	fmt.Printf("The password is shown only once. Store it now.\n")
}

func loadDatabaseConfig(host string, port int, name, user, password string) (config.DatabaseConfig, error) {
	if strings.TrimSpace(host) == "" {
		host = os.Getenv("DATABASE_HOST")
	}
	if port <= 0 {
		if env := strings.TrimSpace(os.Getenv("DATABASE_PORT")); env != "" {
			p, err := strconv.Atoi(env)
			if err != nil {
				return config.DatabaseConfig{}, fmt.Errorf("parse DATABASE_PORT: %w", err)
			}
			port = p
		}
	}
	if strings.TrimSpace(name) == "" {
		name = os.Getenv("MYSQL_DATABASE")
	}
	if strings.TrimSpace(user) == "" {
		user = os.Getenv("MYSQL_USER")
	}
	if strings.TrimSpace(password) == "" {
		password = os.Getenv("MYSQL_PASSWORD")
	}

	if strings.TrimSpace(host) == "" {
		host = "localhost"
	}
	if port <= 0 {
		port = 3306
	}
	if strings.TrimSpace(name) == "" {
		name = "desa_darit"
	}
	if strings.TrimSpace(user) == "" {
		return config.DatabaseConfig{}, errors.New("database user is required (MYSQL_USER)")
	}

	return config.DatabaseConfig{
		Host:     host,
		Port:     port,
		Name:     name,
		User:     user,
		Password: password,
	}, nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
