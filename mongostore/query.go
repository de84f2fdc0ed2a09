package mongostore

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID converts a hex string ID into a driver ObjectID.
func ObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid document id %q: %w", id, err)
	}
	return objectID, nil
}

// IDQuery builds an _id filter for a hex string ID.
func IDQuery(id string) (bson.M, error) {
	objectID, err := ObjectID(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": objectID}, nil
}

// SetUpdate builds a $set update assigning values to keys by position.
func SetUpdate(keys []string, values []any) bson.M {
	set := bson.M{}
	for i, key := range keys {
		if i >= len(values) {
			break
		}
		set[key] = values[i]
	}
	return bson.M{"$set": set}
}

// UnsetUpdate builds a $unset update removing the given keys.
func UnsetUpdate(keys ...string) bson.M {
	unset := bson.M{}
	for _, key := range keys {
		unset[key] = 1
	}
	return bson.M{"$unset": unset}
}

// FullSetUpdate builds a $set update from a full document, dropping its _id.
func FullSetUpdate(doc bson.M) bson.M {
	set := bson.M{}
	for key, value := range doc {
		if key == "_id" {
			continue
		}
		set[key] = value
	}
	return bson.M{"$set": set}
}

// normaliseFilter converts a string _id in a filter to an ObjectID, leaving
// everything else untouched.
func normaliseFilter(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	if raw, ok := filter["_id"].(string); ok {
		if objectID, err := primitive.ObjectIDFromHex(raw); err == nil {
			normalised := make(bson.M, len(filter))
			for key, value := range filter {
				normalised[key] = value
			}
			normalised["_id"] = objectID
			return normalised
		}
	}
	return filter
}

// stripSetID removes _id from a $set payload. Updating the primary key is
// rejected by the server, so it is silently dropped the way the callers
// expect.
func stripSetID(update bson.M) bson.M {
	set, ok := update["$set"].(bson.M)
	if !ok {
		return update
	}
	if _, hasID := set["_id"]; !hasID {
		return update
	}
	cleanedSet := make(bson.M, len(set))
	for key, value := range set {
		if key == "_id" {
			continue
		}
		cleanedSet[key] = value
	}
	cleaned := make(bson.M, len(update))
	for key, value := range update {
		cleaned[key] = value
	}
	cleaned["$set"] = cleanedSet
	return cleaned
}
