package workforce

import (
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollSettings holds the per-company attendance and pay thresholds that
// drive derived attendance statuses and payroll calculation.
type PayrollSettings struct {
	shared.CompanyAggregateRoot
	ClockInStartTime           string          `gorm:"not null;default:'08:00'"` // HH:MM, start of clock-in window
	ClockInEndTime             string          `gorm:"not null;default:'17:00'"` // HH:MM, scheduled shift end
	LateAfterMinutes           int             `gorm:"not null;default:15"`
	OvertimeRate               decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // per hour
	NightShiftAllowanceDefault decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // per shift
	LatePenaltyEnabled         bool            `gorm:"not null;default:false"`
	LatePenaltyAmount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // per late day
}

// TableName returns the table name for GORM
func (PayrollSettings) TableName() string {
	return "payroll_settings"
}

// NewPayrollSettings creates settings with sane defaults for a company
func NewPayrollSettings(companyID uuid.UUID) (*PayrollSettings, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}
	return &PayrollSettings{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		ClockInStartTime:     "08:00",
		ClockInEndTime:       "17:00",
		LateAfterMinutes:     15,
		OvertimeRate:         decimal.Zero,
		NightShiftAllowanceDefault: decimal.Zero,
		LatePenaltyAmount:    decimal.Zero,
	}, nil
}

// SetClockWindow updates the shift window. Times are HH:MM, 24h clock.
func (p *PayrollSettings) SetClockWindow(start, end string, lateAfterMinutes int) error {
	if _, err := parseClock(start); err != nil {
		return shared.NewDomainError("INVALID_INPUT", "clock_in_start_time must be HH:MM")
	}
	if _, err := parseClock(end); err != nil {
		return shared.NewDomainError("INVALID_INPUT", "clock_in_end_time must be HH:MM")
	}
	if lateAfterMinutes < 0 {
		return shared.NewDomainError("INVALID_INPUT", "late_after_minutes cannot be negative")
	}
	p.ClockInStartTime = start
	p.ClockInEndTime = end
	p.LateAfterMinutes = lateAfterMinutes
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetRates updates overtime and night shift rates
func (p *PayrollSettings) SetRates(overtimeRate, nightShiftAllowance decimal.Decimal) error {
	if overtimeRate.IsNegative() || nightShiftAllowance.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Rates cannot be negative")
	}
	p.OvertimeRate = overtimeRate
	p.NightShiftAllowanceDefault = nightShiftAllowance
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetLatePenalty enables or disables the per-late-day deduction
func (p *PayrollSettings) SetLatePenalty(enabled bool, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Late penalty amount cannot be negative")
	}
	p.LatePenaltyEnabled = enabled
	p.LatePenaltyAmount = amount
	p.Touch()
	p.IncrementVersion()
	return nil
}

// LateThreshold returns the instant on the given day after which a check-in
// counts as late.
func (p *PayrollSettings) LateThreshold(day time.Time) time.Time {
	start, _ := parseClock(p.ClockInStartTime)
	return atClock(day, start).Add(time.Duration(p.LateAfterMinutes) * time.Minute)
}

// ShiftEnd returns the scheduled shift end instant on the given day.
func (p *PayrollSettings) ShiftEnd(day time.Time) time.Time {
	end, _ := parseClock(p.ClockInEndTime)
	return atClock(day, end)
}

// parseClock parses an HH:MM wall-clock value.
func parseClock(s string) (time.Time, error) {
	return time.Parse("15:04", s)
}

// atClock places a wall-clock value on a calendar day.
func atClock(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location())
}
