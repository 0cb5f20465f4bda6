package constants

import (
	"path/filepath"
	"strings"
)

const (
	ProofFileUnknown = 0
	ProofFileImage   = 1
	ProofFilePDF     = 4
)

// DetectProofFileType classifies an uploaded payment proof by extension.
func DetectProofFileType(filename string) int {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".pdf":
		return ProofFilePDF
	case ".png", ".jpg", ".jpeg", ".webp":
		return ProofFileImage
	default:
		return ProofFileUnknown
	}
}

func IsAllowedProofFile(filename string) bool {
	return DetectProofFileType(filename) != ProofFileUnknown
}
