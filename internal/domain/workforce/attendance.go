package workforce

import (
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttendanceStatus is derived from the check-in time against the company's
// PayrollSettings thresholds. It is never set directly by callers.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceOnLeave AttendanceStatus = "on-leave"
)

// IsValid checks if the status is a valid AttendanceStatus
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceOnLeave:
		return true
	}
	return false
}

// AttendanceRecord is one staff check-in for one working day.
type AttendanceRecord struct {
	shared.CompanyAggregateRoot
	StaffID       uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_staff_day"`
	Day           time.Time `gorm:"not null;index:idx_attendance_staff_day"` // calendar day, midnight local
	CheckInTime   *time.Time
	CheckOutTime  *time.Time
	Status        AttendanceStatus `gorm:"not null"`
	OvertimeHours decimal.Decimal  `gorm:"type:decimal(8,2);not null;default:0"`
	NightShift    bool             `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// NewCheckIn opens an attendance record for a staff member. The status is
// computed from the check-in instant against the settings: after the
// late-after threshold it is late, otherwise present.
func NewCheckIn(companyID, staffID uuid.UUID, checkIn time.Time, settings *PayrollSettings) (*AttendanceRecord, error) {
	if companyID == uuid.Nil || staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and staff IDs are required")
	}
	if settings == nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Payroll settings are required to derive attendance status")
	}
	if settings.CompanyID != companyID {
		return nil, shared.ErrTenantMismatch
	}

	status := AttendancePresent
	if checkIn.After(settings.LateThreshold(checkIn)) {
		status = AttendanceLate
	}

	day := checkIn.Truncate(24 * time.Hour)
	in := checkIn
	return &AttendanceRecord{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		StaffID:              staffID,
		Day:                  day,
		CheckInTime:          &in,
		Status:               status,
		OvertimeHours:        decimal.Zero,
	}, nil
}

// NewAbsence records a day with no check-in by shift end.
func NewAbsence(companyID, staffID uuid.UUID, day time.Time) (*AttendanceRecord, error) {
	if companyID == uuid.Nil || staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and staff IDs are required")
	}
	return &AttendanceRecord{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		StaffID:              staffID,
		Day:                  day.Truncate(24 * time.Hour),
		Status:               AttendanceAbsent,
		OvertimeHours:        decimal.Zero,
	}, nil
}

// NewLeaveDay records a day covered by an approved leave application.
func NewLeaveDay(companyID, staffID uuid.UUID, day time.Time) (*AttendanceRecord, error) {
	if companyID == uuid.Nil || staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company and staff IDs are required")
	}
	return &AttendanceRecord{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		StaffID:              staffID,
		Day:                  day.Truncate(24 * time.Hour),
		Status:               AttendanceOnLeave,
		OvertimeHours:        decimal.Zero,
	}, nil
}

// CheckOut closes the record. Overtime is the positive part of checkout
// minus the scheduled shift end, in hours.
func (a *AttendanceRecord) CheckOut(checkOut time.Time, settings *PayrollSettings) error {
	if a.CheckInTime == nil {
		return shared.NewDomainError("INVALID_TRANSITION", "Cannot check out a record without a check-in")
	}
	if a.CheckOutTime != nil {
		return shared.NewDomainError("INVALID_TRANSITION", "Attendance record is already closed")
	}
	if checkOut.Before(*a.CheckInTime) {
		return shared.NewDomainError("INVALID_INPUT", "Check-out cannot precede check-in")
	}
	if settings == nil {
		return shared.NewDomainError("INVALID_INPUT", "Payroll settings are required to compute overtime")
	}

	out := checkOut
	a.CheckOutTime = &out

	shiftEnd := settings.ShiftEnd(*a.CheckInTime)
	if checkOut.After(shiftEnd) {
		hours := decimal.NewFromFloat(checkOut.Sub(shiftEnd).Hours()).Round(2)
		a.OvertimeHours = hours
	}

	a.Touch()
	a.IncrementVersion()
	return nil
}

// MarkNightShift flags the record as a night shift for allowance purposes
func (a *AttendanceRecord) MarkNightShift() {
	a.NightShift = true
	a.Touch()
	a.IncrementVersion()
}

// IsClosed reports whether the record has a check-out or is a non-working status
func (a *AttendanceRecord) IsClosed() bool {
	return a.CheckOutTime != nil || a.Status == AttendanceAbsent || a.Status == AttendanceOnLeave
}
