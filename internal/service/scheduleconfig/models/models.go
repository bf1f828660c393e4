package models

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

// Request модели

// UpdateConfigRequest запрос на обновление конфигурации расписания.
// Поддерживает частичное обновление - обновляются только указанные поля
type UpdateConfigRequest struct {
	UserID                  int64 `json:"userId"`
	BufferMinutes           *int  `json:"bufferMinutes,omitempty"`
	SlotGranularityMinutes  *int  `json:"slotGranularityMinutes,omitempty"`
	AdvanceBookingDays      *int  `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int  `json:"minBookingNoticeMinutes,omitempty"`
	PendingTimeOffBlocks    *bool `json:"pendingTimeOffBlocks,omitempty"`
}

// ApplyToConfig применяет указанные поля к конфигурации
func (r *UpdateConfigRequest) ApplyToConfig(cfg *domain.ScheduleConfig) {
	if r.BufferMinutes != nil {
		cfg.BufferMinutes = *r.BufferMinutes
	}
	if r.SlotGranularityMinutes != nil {
		cfg.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.AdvanceBookingDays != nil {
		cfg.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		cfg.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.PendingTimeOffBlocks != nil {
		cfg.PendingTimeOffBlocks = *r.PendingTimeOffBlocks
	}
}

// Response модели

// ConfigResponse ответ с конфигурацией расписания
type ConfigResponse struct {
	ID                      int64     `json:"id,omitempty"`
	CompanyID               int64     `json:"companyId"`
	BufferMinutes           int       `json:"bufferMinutes"`
	SlotGranularityMinutes  int       `json:"slotGranularityMinutes"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	PendingTimeOffBlocks    bool      `json:"pendingTimeOffBlocks"`
	CreatedAt               time.Time `json:"createdAt,omitempty"`
	UpdatedAt               time.Time `json:"updatedAt,omitempty"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(cfg *domain.ScheduleConfig) *ConfigResponse {
	if cfg == nil {
		return nil
	}
	return &ConfigResponse{
		ID:                      cfg.ID,
		CompanyID:               cfg.CompanyID,
		BufferMinutes:           cfg.BufferMinutes,
		SlotGranularityMinutes:  cfg.SlotGranularityMinutes,
		AdvanceBookingDays:      cfg.AdvanceBookingDays,
		MinBookingNoticeMinutes: cfg.MinBookingNoticeMinutes,
		PendingTimeOffBlocks:    cfg.PendingTimeOffBlocks,
		CreatedAt:               cfg.CreatedAt,
		UpdatedAt:               cfg.UpdatedAt,
	}
}
