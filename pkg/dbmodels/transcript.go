package dbmodels

import (
	"time"

	"github.com/voxlink/asr-session-server/pkg/config"
)

type SessionTranscript struct {
	ID           uint64    `gorm:"column:id;type:int(11);primarykey;autoIncrement"`
	SessionID    string    `gorm:"column:session_id;type:varchar(64);not null;uniqueIndex:idx_session_id"`
	Mode         string    `gorm:"column:mode;type:varchar(16);not null"`
	Language     string    `gorm:"column:language;type:varchar(16);not null"`
	Transcript   string    `gorm:"column:transcript;type:longtext"`
	AudioBytes   int64     `gorm:"column:audio_bytes;type:bigint;not null;default:0"`
	StartedAt    int64     `gorm:"column:started_at;type:int(10);not null"`
	EndedAt      int64     `gorm:"column:ended_at;type:int(10);not null"`
	EndReason    string    `gorm:"column:end_reason;type:varchar(16);not null"`
	CreationTime int64     `gorm:"column:creation_time;type:int(10);not null;autoCreateTime"`
	Created      time.Time `gorm:"column:created;type:datetime;not null;default:current_timestamp()"`
}

func (t *SessionTranscript) TableName() string {
	return config.FormatDBTable("session_transcripts")
}
