package dbservice

import (
	"errors"

	"github.com/voxlink/asr-session-server/pkg/dbmodels"
	"gorm.io/gorm"
)

// InsertSessionTranscript stores the final transcript of an ended session.
func (s *DatabaseService) InsertSessionTranscript(info *dbmodels.SessionTranscript) (int64, error) {
	result := s.db.Create(info)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetSessionTranscript fetches a stored transcript by its session id.
// Returns nil with no error when no row exists.
func (s *DatabaseService) GetSessionTranscript(sessionId string) (*dbmodels.SessionTranscript, error) {
	info := new(dbmodels.SessionTranscript)
	result := s.db.Where("session_id = ?", sessionId).Take(info)

	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return nil, nil
	case result.Error != nil:
		return nil, result.Error
	}
	return info, nil
}

// GetSessionTranscripts returns stored transcripts, newest first.
func (s *DatabaseService) GetSessionTranscripts(offset, limit uint64) ([]dbmodels.SessionTranscript, int64, error) {
	var transcripts []dbmodels.SessionTranscript

	if limit == 0 {
		limit = 20
	}

	result := s.db.Model(&dbmodels.SessionTranscript{}).Offset(int(offset)).Limit(int(limit)).Order("id DESC").Find(&transcripts)
	switch {
	case errors.Is(result.Error, gorm.ErrRecordNotFound):
		return nil, 0, nil
	case result.Error != nil:
		return nil, 0, result.Error
	}

	var total int64
	if len(transcripts) > 0 {
		s.db.Model(&dbmodels.SessionTranscript{}).Count(&total)
	}

	return transcripts, total, nil
}
