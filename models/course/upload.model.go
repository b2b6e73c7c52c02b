package course

import (
	"time"

	"gorm.io/gorm"
)

// UploadSession is one chunked image upload in flight. Sessions live in
// the database, not in process memory, so any server instance can accept
// the next chunk and abandoned sessions can be purged by the scheduler.
type UploadSession struct {
	gorm.Model
	SessionID   string    `json:"session_id" gorm:"uniqueIndex;not null"` // uuid
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	FileName    string    `json:"file_name"`
	TotalChunks int       `json:"total_chunks" gorm:"default:0"`
	Status      string    `json:"status" gorm:"default:'OPEN'"` // OPEN, FINALIZED, EXPIRED
	ExpiresAt   time.Time `json:"expires_at"`
	IsDeleted   bool      `gorm:"default:false"`
}

// UploadChunk is one base64 piece of an UploadSession
type UploadChunk struct {
	gorm.Model
	SessionID  string `json:"session_id" gorm:"index;not null"`
	ChunkIndex int    `json:"chunk_index" gorm:"not null"`
	Data       string `json:"data" gorm:"type:text"`
	IsDeleted  bool   `gorm:"default:false"`
}
