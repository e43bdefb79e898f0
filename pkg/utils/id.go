package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID returns a short, URL-safe identifier for report jobs.
func GenerateID() string {
	return gonanoid.MustGenerate(characters, 12)
}
