package utils

import (
	"log"
	"time"

	"codeclub/database"
	courseModels "codeclub/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeUploadScheduler sets up the upload-session maintenance job
func InitializeUploadScheduler() {
	log.Println("[UPLOAD-SCHEDULER] Initializing upload session scheduler...")

	c := cron.New()

	// Run hourly to purge abandoned upload sessions
	c.AddFunc("@hourly", func() {
		ExpireUploadSessions()
	})

	c.Start()
	log.Println("[UPLOAD-SCHEDULER] Upload session scheduler started - runs hourly")
}

// ExpireUploadSessions marks overdue open sessions expired and drops their chunks
func ExpireUploadSessions() {
	db := database.Database.Db
	now := time.Now()

	var expired []courseModels.UploadSession
	if err := db.Where("status = ? AND expires_at < ? AND is_deleted = ?", "OPEN", now, false).
		Find(&expired).Error; err != nil {
		log.Printf("[UPLOAD-SCHEDULER] Error fetching expired sessions: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	log.Printf("[UPLOAD-SCHEDULER] Expiring %d abandoned upload sessions", len(expired))

	for _, session := range expired {
		session.Status = "EXPIRED"
		if err := db.Save(&session).Error; err != nil {
			log.Printf("[UPLOAD-SCHEDULER] Error expiring session %s: %v", session.SessionID, err)
			continue
		}
		if err := db.Where("session_id = ?", session.SessionID).
			Delete(&courseModels.UploadChunk{}).Error; err != nil {
			log.Printf("[UPLOAD-SCHEDULER] Error deleting chunks for session %s: %v", session.SessionID, err)
		}
	}
}
