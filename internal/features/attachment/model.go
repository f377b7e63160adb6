package attachment

import (
	"time"

	"sourcevia/pkg/permissions"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Attachment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename   string             `bson:"filename" json:"filename"`
	StoredName string             `bson:"stored_name" json:"-"`
	Path       string             `bson:"path" json:"-"`
	Size       int64              `bson:"size" json:"size"`
	MimeType   string             `bson:"mime_type" json:"mime_type"`
	Module     permissions.Module `bson:"module" json:"module"`
	EntityID   string             `bson:"entity_id" json:"entity_id"`
	UploadedBy string             `bson:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
