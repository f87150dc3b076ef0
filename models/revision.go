package models

import "time"

// Revision is one append-only history entry for an entity. Snapshot is a
// JSON object of the entity's fields at the time of the change. The primary
// key is the authoritative order; wall-clock timestamps are informational.
type Revision struct {
	RevisionID  int       `gorm:"primaryKey;column:revision_id" json:"revision_id"`
	EntityType  string    `gorm:"column:entity_type;index:idx_revision_entity,priority:1" json:"entity_type"`
	EntityID    int       `gorm:"column:entity_id;index:idx_revision_entity,priority:2" json:"entity_id"`
	UserID      *int      `gorm:"column:user_id" json:"user_id,omitempty"`
	Snapshot    string    `gorm:"column:snapshot;type:text" json:"snapshot"`
	Comment     string    `gorm:"column:comment" json:"comment"`
	CreatedDate time.Time `gorm:"column:created_date;autoCreateTime" json:"created_date"`
}

func (Revision) TableName() string {
	return "revisions"
}
