package workforce

import (
	"fmt"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayType is how a staff member's rate is quoted
type PayType string

const (
	PayHourly  PayType = "hourly"
	PayDaily   PayType = "daily"
	PayWeekly  PayType = "weekly"
	PayMonthly PayType = "monthly"
)

// IsValid checks if the pay type is known
func (t PayType) IsValid() bool {
	switch t {
	case PayHourly, PayDaily, PayWeekly, PayMonthly:
		return true
	}
	return false
}

// PayrollStatus is the lifecycle state of a payroll period
type PayrollStatus string

const (
	PayrollDraft     PayrollStatus = "draft"
	PayrollProcessed PayrollStatus = "processed"
	PayrollPaid      PayrollStatus = "paid"
)

// CanTransitionTo checks the strictly forward-only period lifecycle.
// paid is terminal.
func (s PayrollStatus) CanTransitionTo(target PayrollStatus) bool {
	switch s {
	case PayrollDraft:
		return target == PayrollProcessed
	case PayrollProcessed:
		return target == PayrollPaid
	case PayrollPaid:
		return false
	}
	return false
}

// StaffPayroll is one staff member's settlement within a payroll period.
type StaffPayroll struct {
	shared.BaseEntity
	CompanyID            uuid.UUID        `gorm:"type:uuid;not null;index"`
	PeriodID             uuid.UUID        `gorm:"type:uuid;not null;index"`
	StaffID              uuid.UUID        `gorm:"type:uuid;not null;index"`
	PayType              PayType          `gorm:"not null"`
	Rate                 decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	PresentDays          int              `gorm:"not null;default:0"`
	LateDays             int              `gorm:"not null;default:0"`
	AbsentDays           int              `gorm:"not null;default:0"`
	LeaveDays            int              `gorm:"not null;default:0"`
	OvertimeHours        decimal.Decimal  `gorm:"type:decimal(8,2);not null;default:0"`
	NightShifts          int              `gorm:"not null;default:0"`
	CalculatedDailyPay   *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CalculatedWeeklyPay  *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CalculatedMonthlyPay *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (StaffPayroll) TableName() string {
	return "staff_payrolls"
}

// NewStaffPayroll creates an uncalculated settlement row from attendance counts
func NewStaffPayroll(companyID, periodID, staffID uuid.UUID, payType PayType, rate decimal.Decimal) (*StaffPayroll, error) {
	if companyID == uuid.Nil || periodID == uuid.Nil || staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company, period and staff IDs are required")
	}
	if !payType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown pay type")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Rate cannot be negative")
	}
	return &StaffPayroll{
		BaseEntity:    shared.NewBaseEntity(),
		CompanyID:     companyID,
		PeriodID:      periodID,
		StaffID:       staffID,
		PayType:       payType,
		Rate:          rate,
		OvertimeHours: decimal.Zero,
	}, nil
}

// SetAttendanceCounts loads the day counts aggregated from attendance records
func (p *StaffPayroll) SetAttendanceCounts(present, late, absent, leave int, overtimeHours decimal.Decimal, nightShifts int) error {
	if present < 0 || late < 0 || absent < 0 || leave < 0 || nightShifts < 0 || overtimeHours.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Attendance counts cannot be negative")
	}
	p.PresentDays = present
	p.LateDays = late
	p.AbsentDays = absent
	p.LeaveDays = leave
	p.OvertimeHours = overtimeHours
	p.NightShifts = nightShifts
	p.Touch()
	return nil
}

// Calculate fills the derived pay fields from the rate, attendance counts
// and the company settings. Daily pay is the rate itself for monthly staff;
// for other pay types it is scaled by the share of days actually worked
// (present + late + paid leave) over the scheduled days of the period.
// Overtime, night shift allowance and the late penalty adjust the period
// total, which is then rolled up to the weekly and monthly figures.
func (p *StaffPayroll) Calculate(settings *PayrollSettings) error {
	if settings == nil {
		return shared.NewDomainError("INVALID_INPUT", "Payroll settings are required")
	}
	if settings.CompanyID != p.CompanyID {
		return shared.ErrTenantMismatch
	}

	scheduled := p.PresentDays + p.LateDays + p.AbsentDays + p.LeaveDays
	daily := p.Rate
	if p.PayType != PayMonthly && scheduled > 0 {
		worked := decimal.NewFromInt(int64(p.PresentDays + p.LateDays + p.LeaveDays))
		daily = p.Rate.Mul(worked).Div(decimal.NewFromInt(int64(scheduled))).Round(4)
	}

	periodBase := daily.Mul(decimal.NewFromInt(int64(scheduled)))
	periodBase = periodBase.Add(p.OvertimeHours.Mul(settings.OvertimeRate))
	periodBase = periodBase.Add(decimal.NewFromInt(int64(p.NightShifts)).Mul(settings.NightShiftAllowanceDefault))
	if settings.LatePenaltyEnabled {
		periodBase = periodBase.Sub(decimal.NewFromInt(int64(p.LateDays)).Mul(settings.LatePenaltyAmount))
	}
	if periodBase.IsNegative() {
		periodBase = decimal.Zero
	}

	weekly := daily.Mul(decimal.NewFromInt(7)).Round(4)
	monthly := periodBase.Round(4)

	p.CalculatedDailyPay = &daily
	p.CalculatedWeeklyPay = &weekly
	p.CalculatedMonthlyPay = &monthly
	p.Touch()
	return nil
}

// IsCalculated reports whether the derived pay fields are filled
func (p *StaffPayroll) IsCalculated() bool {
	return p.CalculatedMonthlyPay != nil
}

// PayrollPeriod aggregates one settlement per staff member over a date range.
type PayrollPeriod struct {
	shared.CompanyAggregateRoot
	PeriodStart time.Time       `gorm:"not null"`
	PeriodEnd   time.Time       `gorm:"not null"`
	Status      PayrollStatus   `gorm:"not null;default:draft"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ProcessedAt *time.Time
	PaidAt      *time.Time

	Payrolls []StaffPayroll `gorm:"foreignKey:PeriodID;references:ID"`
}

// TableName returns the table name for GORM
func (PayrollPeriod) TableName() string {
	return "payroll_periods"
}

// NewPayrollPeriod opens a draft period for a company
func NewPayrollPeriod(companyID uuid.UUID, start, end time.Time) (*PayrollPeriod, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Company ID cannot be empty")
	}
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Period end must be after period start")
	}
	return &PayrollPeriod{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		PeriodStart:          start,
		PeriodEnd:            end,
		Status:               PayrollDraft,
		TotalAmount:          decimal.Zero,
		Payrolls:             make([]StaffPayroll, 0),
	}, nil
}

// AddPayroll attaches a settlement row. Only draft periods accept rows; a
// staff member appears at most once per period.
func (pp *PayrollPeriod) AddPayroll(payroll *StaffPayroll) error {
	if pp.Status != PayrollDraft {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot add payroll rows to a %s period", pp.Status))
	}
	if payroll == nil {
		return shared.ErrNotFound
	}
	if payroll.CompanyID != pp.CompanyID {
		return shared.ErrTenantMismatch
	}
	for _, existing := range pp.Payrolls {
		if existing.StaffID == payroll.StaffID {
			return shared.NewDomainError("INVARIANT_VIOLATION", "Staff member already has a payroll row in this period")
		}
	}
	payroll.PeriodID = pp.ID
	pp.Payrolls = append(pp.Payrolls, *payroll)
	pp.Touch()
	pp.IncrementVersion()
	return nil
}

// Process transitions draft -> processed. Every row must be calculated;
// the period total becomes the sum of the calculated pay and the rows are
// frozen. Recalculation afterwards requires an explicit Reopen.
func (pp *PayrollPeriod) Process() error {
	if !pp.Status.CanTransitionTo(PayrollProcessed) {
		return shared.ErrInvalidTransition
	}
	if len(pp.Payrolls) == 0 {
		return shared.NewDomainError("INVARIANT_VIOLATION", "Cannot process a period without payroll rows")
	}

	total := decimal.Zero
	for i := range pp.Payrolls {
		if !pp.Payrolls[i].IsCalculated() {
			return shared.NewDomainError("INVARIANT_VIOLATION", "All payroll rows must be calculated before processing")
		}
		total = total.Add(*pp.Payrolls[i].CalculatedMonthlyPay)
	}

	now := time.Now()
	pp.Status = PayrollProcessed
	pp.TotalAmount = total
	pp.ProcessedAt = &now
	pp.Touch()
	pp.IncrementVersion()
	return nil
}

// MarkPaid transitions processed -> paid (terminal).
func (pp *PayrollPeriod) MarkPaid() error {
	if !pp.Status.CanTransitionTo(PayrollPaid) {
		return shared.ErrInvalidTransition
	}
	now := time.Now()
	pp.Status = PayrollPaid
	pp.PaidAt = &now
	pp.Touch()
	pp.IncrementVersion()
	return nil
}

// Reopen is the explicit administrative action that returns a processed
// period to draft for recalculation. It is not part of the normal forward
// lifecycle and is refused once the period is paid.
func (pp *PayrollPeriod) Reopen() error {
	if pp.Status != PayrollProcessed {
		return shared.ErrInvalidTransition
	}
	pp.Status = PayrollDraft
	pp.TotalAmount = decimal.Zero
	pp.ProcessedAt = nil
	pp.Touch()
	pp.IncrementVersion()
	return nil
}
