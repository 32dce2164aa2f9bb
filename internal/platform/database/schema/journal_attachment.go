// Copyright (c) 2026 Peerline. All rights reserved.
// Author: dev@peerline.app

package schema

// JournalAttachmentTable represents the 'journal.attachment' table.
// Metadata-only registry of binary artifacts; binaries live in external storage.
type JournalAttachmentTable struct {
	Table      string
	ID         string
	OwnerKind  string
	OwnerID    string
	FileType   string
	Locator    string
	UploadedBy string
	UploadedAt string
}

// JournalAttachment is the schema definition for journal.attachment
var JournalAttachment = JournalAttachmentTable{
	Table:      "journal.attachment",
	ID:         "id",
	OwnerKind:  "ownerkind",
	OwnerID:    "ownerid",
	FileType:   "filetype",
	Locator:    "locator",
	UploadedBy: "uploadedby",
	UploadedAt: "uploadedat",
}

func (t JournalAttachmentTable) Columns() []string {
	return []string{
		t.ID, t.OwnerKind, t.OwnerID, t.FileType, t.Locator, t.UploadedBy, t.UploadedAt,
	}
}
