package types

import (
	"fmt"
	"strings"
)

// FileCategory classifies a stored file by its filename prefix.
// No database row ties a file to its category; the mapping is
// recomputed from the name by every reader.
type FileCategory string

const (
	FileCategoryContract        FileCategory = "Contrato"
	FileCategoryPowerOfAttorney FileCategory = "Procuração"
	FileCategoryDeclaration     FileCategory = "Declaração"
	FileCategoryForm            FileCategory = "Ficha"
	FileCategorySupportingDocs  FileCategory = "Documentos Complementares"
	FileCategoryEvidence        FileCategory = "Provas"
	FileCategoryFiling          FileCategory = "Protocolo"
	FileCategoryOther           FileCategory = "Outros"
)

// categoryPrefixes maps each category to its filename prefix token.
// FileCategoryOther has no token: it is the fallback bucket.
var categoryPrefixes = map[FileCategory]string{
	FileCategoryContract:        "CONTRATO_",
	FileCategoryPowerOfAttorney: "PROCURACAO_",
	FileCategoryDeclaration:     "DECLARACAO_",
	FileCategoryForm:            "FICHA_",
	FileCategorySupportingDocs:  "DOCS_",
	FileCategoryEvidence:        "PROVA_",
	FileCategoryFiling:          "PROTOCOLO_",
}

// AllFileCategories returns all file categories in display order
func AllFileCategories() []FileCategory {
	return []FileCategory{
		FileCategoryContract,
		FileCategoryPowerOfAttorney,
		FileCategoryDeclaration,
		FileCategoryForm,
		FileCategorySupportingDocs,
		FileCategoryEvidence,
		FileCategoryFiling,
		FileCategoryOther,
	}
}

// IsValid checks if the file category is valid
func (c FileCategory) IsValid() bool {
	if c == FileCategoryOther {
		return true
	}
	_, ok := categoryPrefixes[c]
	return ok
}

// Prefix returns the filename prefix token for the category.
// FileCategoryOther returns an empty string.
func (c FileCategory) Prefix() string {
	return categoryPrefixes[c]
}

// UserUploadable reports whether files of this category come in through
// the action's own upload channel. The remaining categories hold
// system-generated documents and must not be deleted via the file API.
func (c FileCategory) UserUploadable() bool {
	switch c {
	case FileCategorySupportingDocs,
		FileCategoryEvidence,
		FileCategoryFiling,
		FileCategoryOther:
		return true
	default:
		return false
	}
}

// String returns the string representation of the file category
func (c FileCategory) String() string {
	return string(c)
}

// ParseFileCategory parses a string into a FileCategory
func ParseFileCategory(s string) (FileCategory, error) {
	category := FileCategory(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid file category: %s", s)
	}
	return category, nil
}

// ClassifyFilename determines the category of a stored file from its
// name. Names with no known prefix token fall into FileCategoryOther.
func ClassifyFilename(name string) FileCategory {
	for _, category := range AllFileCategories() {
		prefix := category.Prefix()
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return category
		}
	}
	return FileCategoryOther
}
