package mongostore

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentBase carries the system fields every stored document shares. It is
// meant to be embedded by concrete document types.
type DocumentBase struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Version int                `bson:"version,omitempty" json:"version,omitempty"`
}

// HexID returns the document ID as a hex string, or "" when unset.
func (d *DocumentBase) HexID() string {
	if d.ID.IsZero() {
		return ""
	}
	return d.ID.Hex()
}

// ExtractSystemFields copies _id and version out of a raw document map.
func (d *DocumentBase) ExtractSystemFields(data map[string]any) {
	if raw, ok := data["_id"]; ok {
		switch typed := raw.(type) {
		case primitive.ObjectID:
			d.ID = typed
		case string:
			if objectID, err := primitive.ObjectIDFromHex(typed); err == nil {
				d.ID = objectID
			}
		}
	}
	if version, ok := data["version"]; ok {
		switch typed := version.(type) {
		case int:
			d.Version = typed
		case int32:
			d.Version = int(typed)
		case int64:
			d.Version = int(typed)
		case float64:
			d.Version = int(typed)
		}
	}
}

// SystemFields serialises the system fields into a document map, omitting
// unset values.
func (d *DocumentBase) SystemFields() map[string]any {
	result := make(map[string]any)
	if !d.ID.IsZero() {
		result["_id"] = d.ID.Hex()
	}
	if d.Version != 0 {
		result["version"] = d.Version
	}
	return result
}

// ListToJSON serialises a list of documents into a list of maps.
func ListToJSON[T interface{ ToJSON() map[string]any }](items []T) []map[string]any {
	result := make([]map[string]any, len(items))
	for i, item := range items {
		result[i] = item.ToJSON()
	}
	return result
}
