package domain

import "time"

// ScheduleConfig represents company-level scheduling policy:
// how much padding surrounds a booked interval, at which granularity slots
// are offered, how far ahead bookings are allowed, the minimum notice for
// same-day bookings, and whether unapproved time-off already blocks booking.
type ScheduleConfig struct {
	ID                      int64
	CompanyID               int64
	BufferMinutes           int
	SlotGranularityMinutes  int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	PendingTimeOffBlocks    bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *ScheduleConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// HasBuffer returns true if booked intervals are padded
func (c *ScheduleConfig) HasBuffer() bool {
	return c.BufferMinutes > 0
}

// DefaultScheduleConfig returns the company-independent defaults used when
// a company has not configured its scheduling policy yet.
func DefaultScheduleConfig(companyID int64) *ScheduleConfig {
	return &ScheduleConfig{
		CompanyID:               companyID,
		BufferMinutes:           DefaultBufferMinutes,
		SlotGranularityMinutes:  DefaultSlotGranularityMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		PendingTimeOffBlocks:    DefaultPendingTimeOffBlocks,
	}
}
