// Package main is a development utility for generating the two secrets the
// onboarding server needs: the session-token signing secret and the 32-byte
// password encryption key. It prints ready-to-export environment variable
// assignments so developers can quickly configure a local instance. Do not
// reuse generated values across environments — rotate them per deployment.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
)

func main() {
	// JWT signing secret: 32 random bytes, hex-encoded
	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		log.Fatal(err)
	}
	jwtSecret := hex.EncodeToString(secretBytes)

	// AES-256 password encryption key: exactly 32 bytes. Base64 of 24 random
	// bytes yields a 32-character ASCII string, which keeps the value
	// printable while satisfying the key length check.
	keyBytes := make([]byte, 24)
	if _, err := rand.Read(keyBytes); err != nil {
		log.Fatal(err)
	}
	encryptionKey := base64.RawURLEncoding.EncodeToString(keyBytes)

	fmt.Println("==========================================================")
	fmt.Println("Secrets Generated")
	fmt.Println("==========================================================")
	fmt.Printf("\nexport NOB_AUTH_JWT_SECRET=%s\n", jwtSecret)
	fmt.Printf("export PASSWORD_ENCRYPTION_KEY=%s\n", encryptionKey)
	fmt.Println("\n==========================================================")
}
