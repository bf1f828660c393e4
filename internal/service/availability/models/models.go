package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Request модели

// CreateRuleRequest запрос на создание правила доступности
type CreateRuleRequest struct {
	UserID     int64  `json:"userId"`
	StaffID    int64  `json:"staffId"`
	Weekday    int    `json:"weekday"`    // 0 = воскресенье ... 6 = суббота
	LocalStart string `json:"localStart"` // HH:MM в таймзоне компании
	LocalEnd   string `json:"localEnd"`   // HH:MM в таймзоне компании
}

// ToDomainRule конвертирует request в domain модель
func (r *CreateRuleRequest) ToDomainRule(companyID int64) (*domain.AvailabilityRule, error) {
	if r.Weekday < 0 || r.Weekday > 6 {
		return nil, fmt.Errorf("weekday must be between 0 and 6, got %d", r.Weekday)
	}

	start, err := types.NewTimeStringFromString(r.LocalStart)
	if err != nil {
		return nil, fmt.Errorf("localStart: %v", err)
	}
	end, err := types.NewTimeStringFromString(r.LocalEnd)
	if err != nil {
		return nil, fmt.Errorf("localEnd: %v", err)
	}
	if !start.IsBefore(end) {
		return nil, fmt.Errorf("localStart %s must be before localEnd %s", start, end)
	}

	return &domain.AvailabilityRule{
		CompanyID:  companyID,
		StaffID:    r.StaffID,
		Weekday:    time.Weekday(r.Weekday),
		LocalStart: start,
		LocalEnd:   end,
	}, nil
}

// Response модели

// RuleResponse ответ с данными правила доступности
type RuleResponse struct {
	ID         int64     `json:"id"`
	CompanyID  int64     `json:"companyId"`
	StaffID    int64     `json:"staffId"`
	Weekday    int       `json:"weekday"`
	LocalStart string    `json:"localStart"`
	LocalEnd   string    `json:"localEnd"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RuleListResponse ответ со списком правил
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(rule *domain.AvailabilityRule) *RuleResponse {
	if rule == nil {
		return nil
	}
	return &RuleResponse{
		ID:         rule.ID,
		CompanyID:  rule.CompanyID,
		StaffID:    rule.StaffID,
		Weekday:    int(rule.Weekday),
		LocalStart: rule.LocalStart.String(),
		LocalEnd:   rule.LocalEnd.String(),
		CreatedAt:  rule.CreatedAt,
		UpdatedAt:  rule.UpdatedAt,
	}
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.AvailabilityRule) *RuleListResponse {
	result := make([]RuleResponse, 0, len(rules))
	for _, rule := range rules {
		result = append(result, *FromDomainRule(rule))
	}
	return &RuleListResponse{Rules: result}
}
