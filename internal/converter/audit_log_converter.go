package converter

import (
	"account-service/internal/delivery/dto"
	"account-service/internal/domain/entity"

	"github.com/samber/lo"
)

func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	res := &dto.AuditLogResponse{
		ID:        log.ID,
		UserID:    log.UserID,
		Action:    log.Action,
		CreatedAt: log.CreatedAt,
	}
	res.Entity, _ = log.Metadata["entity"].(string)
	res.EntityID, _ = log.Metadata["entity_id"].(string)

	changes := lo.PickBy(map[string]any(log.Metadata), func(key string, value any) bool {
		return (key == "old_value" || key == "new_value") && value != nil
	})
	if len(changes) > 0 {
		res.Changes = changes
	}
	return res
}

func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	return lo.Map(logs, func(log entity.AuditLog, i int) dto.AuditLogResponse {
		return *AuditLogToResponse(&logs[i])
	})
}
