// internal/services/storage_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniffImageType(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		ok          bool
	}{
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, "image/jpeg", true},
		{"png", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, "image/png", true},
		{"webp", append([]byte("RIFF"), append([]byte{0, 0, 0, 0}, []byte("WEBP")...)...), "image/webp", true},
		{"gif", []byte("GIF89a trailing"), "image/gif", true},
		{"pdf", []byte("%PDF-1.4"), "", false},
		{"empty", nil, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contentType, _, ok := sniffImageType(tt.data)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.contentType, contentType)
		})
	}
}

func TestPublicURL(t *testing.T) {
	s := &StorageService{bucket: "hadarhome-assets", region: "eu-central-1"}
	assert.Equal(t,
		"https://hadarhome-assets.s3.eu-central-1.amazonaws.com/products/a.jpg",
		s.publicURL("products/a.jpg"))

	s.cloudFrontURL = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/products/a.jpg", s.publicURL("products/a.jpg"))
}

func TestGenerateKeyKeepsJpgExtension(t *testing.T) {
	s := &StorageService{uploadFolder: "products"}

	key := s.generateKey("photo.jpg", ".jpeg")
	assert.Contains(t, key, "products/")
	assert.Regexp(t, `\.jpg$`, key)

	key = s.generateKey("photo.png", ".png")
	assert.Regexp(t, `\.png$`, key)
}
