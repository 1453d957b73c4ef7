// Package main is a utility for generating bcrypt hashes of passwords. The
// registrations table stores only bcrypt hashes — never plaintext — so this
// tool is used when manually seeding or repairing membership rows in the
// database without running the full registration flow. The hash can be
// inserted directly into the password column.
package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := "changeme"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(hash))
}
