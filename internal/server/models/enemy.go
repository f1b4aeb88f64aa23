// Package models holds the persistence-level types shared by server
// repositories and services.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Enemy is a single grudge record. ID is assigned by the store on insert
// and never changes. OwnerID is set from the caller's session at creation
// time and is never exposed on the wire.
type Enemy struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"userId"`
	Name        string             `bson:"name"`
	GrudgeLevel int                `bson:"grudgeLevel"`
	Description string             `bson:"description,omitempty"`
	Avatar      string             `bson:"avatar,omitempty"`
}

// EnemyPatch is the allow-list of fields a partial update may touch.
// A nil field means "leave unchanged".
type EnemyPatch struct {
	Name        *string
	GrudgeLevel *int
	Description *string
	Avatar      *string
}

// IsEmpty reports whether the patch would change nothing.
func (p EnemyPatch) IsEmpty() bool {
	return p.Name == nil && p.GrudgeLevel == nil && p.Description == nil && p.Avatar == nil
}
