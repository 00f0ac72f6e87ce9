package handlers

import (
	"encoding/json"

	"alumni-form/internal/models"

	"github.com/gin-contrib/sessions"
	"go.uber.org/zap"
)

const draftSessionKey = "alumniFormDraft"

// LoadDraft returns the record saved in the session, or nil when there is none
// or it cannot be decoded.
func LoadDraft(session sessions.Session) *models.FormRecord {
	raw, ok := session.Get(draftSessionKey).(string)
	if !ok || raw == "" {
		return nil
	}
	var record models.FormRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil
	}
	return &record
}

// saveDraft stores record in the session. An empty record removes the draft.
func saveDraft(session sessions.Session, log *zap.Logger, record models.FormRecord) {
	if record.IsEmpty() {
		clearDraft(session, log)
		return
	}
	data, err := json.Marshal(record)
	if err != nil {
		log.Warn("Failed to encode draft", zap.Error(err))
		return
	}
	session.Set(draftSessionKey, string(data))
	if err := session.Save(); err != nil {
		log.Warn("Failed to save draft", zap.Error(err))
	}
}

func clearDraft(session sessions.Session, log *zap.Logger) {
	if session.Get(draftSessionKey) == nil {
		return
	}
	session.Delete(draftSessionKey)
	if err := session.Save(); err != nil {
		log.Warn("Failed to clear draft", zap.Error(err))
	}
}
