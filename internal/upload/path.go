// Package upload handles recipe image uploads: path generation, disk
// storage, and blurhash placeholder computation.
package upload

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// RecipeImageDir is the fixed prefix under which recipe images are stored.
// The same string appears in the database image_path column and in the
// public /uploads/... URL.
const RecipeImageDir = "uploads/recipe"

// IDSource produces unique identifiers for stored files. Production uses
// uuid.NewString; tests substitute a deterministic source.
type IDSource func() string

// RecipeImagePath derives the storage path for an uploaded recipe image:
// a fresh identifier plus the original file's extension, e.g.
//
//	RecipeImagePath("dinner photo.JPG", nil)
//	→ "uploads/recipe/0f8fad5b-d9cb-469f-a165-70867728950e.jpg"
//
// The original filename is client-controlled and untrusted — only its
// extension survives, lowercased. Identifiers are random UUIDs: collision
// resistance is the requirement here, not secrecy.
func RecipeImagePath(originalFilename string, newID IDSource) string {
	if newID == nil {
		newID = uuid.NewString
	}

	ext := strings.ToLower(filepath.Ext(originalFilename))
	return path.Join(RecipeImageDir, newID()+ext)
}
