package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/smarttransit/schedule-admin/internal/services"
	"github.com/smarttransit/schedule-admin/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("password", "", "staff password to hash for a new admin_users row")
	email := flag.String("email", "admin@smarttransit.lk", "email of the new staff account")
	name := flag.String("name", "Schedule Administrator", "full name of the new staff account")
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost (match BCRYPT_COST)")
	flag.Parse()

	fmt.Println("===========================================")
	fmt.Println("Secret Generator for SmartTransit Schedule Admin")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateSessionSecret()
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add this to your .env file:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", secret)
	fmt.Println()

	if *password != "" {
		hash, err := services.HashPassword(*password, *cost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		fmt.Println("Create the staff account with:")
		fmt.Println()
		fmt.Printf("INSERT INTO admin_users (id, email, password_hash, full_name, is_active, created_at, updated_at)\n")
		fmt.Printf("VALUES ('%s', '%s', '%s', '%s', true, NOW(), NOW());\n",
			uuid.New(), sqlQuote(strings.ToLower(*email)), hash, sqlQuote(*name))
		fmt.Println()
	}

	fmt.Println("IMPORTANT: Keep these secrets safe and never commit them to version control!")
	fmt.Println("===========================================")
}

func sqlQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
