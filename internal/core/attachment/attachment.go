// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

/*
Package attachment implements the file registry: metadata records linking
uploaded files to articles and issues.

Only metadata is kept here. The locator points at wherever the binary
actually lives; this core never reads file contents. Records are immutable
once created, deletable but never updated, so a file-presence guard
evaluated at transition time cannot observe a half-changed record.
*/
package attachment

import "time"

// OwnerKind names the entity a file hangs off.
type OwnerKind string

const (
	OwnerArticle OwnerKind = "article"
	OwnerIssue   OwnerKind = "issue"
)

// ParseOwnerKind maps a raw label onto a known owner kind.
func ParseOwnerKind(raw string) (OwnerKind, bool) {
	switch OwnerKind(raw) {
	case OwnerArticle, OwnerIssue:
		return OwnerKind(raw), true
	}
	return "", false
}

// Type is the closed set of file roles the gates understand.
type Type string

const (
	TypeManuscript       Type = "manuscript"
	TypeSupplement       Type = "supplement"
	TypeZGS              Type = "zgs"
	TypeAntiplagReport   Type = "antiplag_report"
	TypeResponseToReview Type = "response_to_review"
	TypeProductionPDF    Type = "production_pdf"
	TypeCoverLetter      Type = "cover_letter"
)

// ParseType maps a raw label onto a known file type.
func ParseType(raw string) (Type, bool) {
	switch Type(raw) {
	case TypeManuscript, TypeSupplement, TypeZGS, TypeAntiplagReport,
		TypeResponseToReview, TypeProductionPDF, TypeCoverLetter:
		return Type(raw), true
	}
	return "", false
}

// Types returns every valid file type label. Used for boundary validation.
func Types() []string {
	return []string{
		string(TypeManuscript), string(TypeSupplement), string(TypeZGS),
		string(TypeAntiplagReport), string(TypeResponseToReview),
		string(TypeProductionPDF), string(TypeCoverLetter),
	}
}

// Attachment is one immutable file metadata record.
type Attachment struct {
	ID        string    `json:"id"`
	OwnerKind OwnerKind `json:"owner_kind"`
	OwnerID   string    `json:"owner_id"`
	FileType  Type      `json:"file_type"`

	// Locator is an opaque reference to the stored binary (object key,
	// URL, path). The core never dereferences it.
	Locator string `json:"locator"`

	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Field names for validation
const (
	FieldFileType = "file_type"
	FieldLocator  = "locator"
)
