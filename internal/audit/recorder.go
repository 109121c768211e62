// Package audit records configuration changes made through the HTTP
// boundary. It is a collaborator of the handlers, never of the engine:
// recording is best effort and happens after the mutation succeeded.
package audit

import (
	"log"

	"github.com/pulsewatch/internal/models"
	"gorm.io/gorm"
)

type Recorder struct {
	db *gorm.DB
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Record persists one audit entry. Failures are logged, not returned; an
// audit hiccup must not fail the request that already committed.
func (r *Recorder) Record(userID uint, action, entity string, entityID uint, detail string) {
	entry := models.AuditLog{
		UserID:   userID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to record audit entry %s for %s %d: %v", action, entity, entityID, err)
	}
}
