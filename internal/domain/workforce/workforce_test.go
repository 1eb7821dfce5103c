package workforce

import (
	"errors"
	"testing"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestSettings(t *testing.T, companyID uuid.UUID) *PayrollSettings {
	settings, err := NewPayrollSettings(companyID)
	require.NoError(t, err)
	return settings
}

func TestNewCheckIn_DerivesStatus(t *testing.T) {
	companyID := uuid.New()
	staffID := uuid.New()
	settings := createTestSettings(t, companyID)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	onTime, err := NewCheckIn(companyID, staffID, day.Add(8*time.Hour+10*time.Minute), settings)
	require.NoError(t, err)
	assert.Equal(t, AttendancePresent, onTime.Status)
	require.NotNil(t, onTime.CheckInTime)

	late, err := NewCheckIn(companyID, staffID, day.Add(8*time.Hour+16*time.Minute), settings)
	require.NoError(t, err)
	assert.Equal(t, AttendanceLate, late.Status)
}

func TestNewCheckIn_SettingsTenantMismatch(t *testing.T) {
	settings := createTestSettings(t, uuid.New())

	_, err := NewCheckIn(uuid.New(), uuid.New(), time.Now(), settings)
	assert.ErrorIs(t, err, shared.ErrTenantMismatch)
}

func TestAttendance_CheckOut(t *testing.T) {
	companyID := uuid.New()
	settings := createTestSettings(t, companyID)
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	record, err := NewCheckIn(companyID, uuid.New(), day.Add(8*time.Hour), settings)
	require.NoError(t, err)

	// Wrong order first: check-out cannot precede check-in.
	assert.Error(t, record.CheckOut(day.Add(7*time.Hour), settings))

	// Two hours past the 17:00 shift end becomes overtime.
	require.NoError(t, record.CheckOut(day.Add(19*time.Hour), settings))
	assert.True(t, record.IsClosed())
	assert.True(t, record.OvertimeHours.Equal(decimal.NewFromInt(2)))

	assert.Error(t, record.CheckOut(day.Add(20*time.Hour), settings), "already closed")
}

func TestAttendance_AbsenceAndLeaveDay(t *testing.T) {
	companyID := uuid.New()
	day := time.Now()

	absence, err := NewAbsence(companyID, uuid.New(), day)
	require.NoError(t, err)
	assert.Equal(t, AttendanceAbsent, absence.Status)
	assert.Nil(t, absence.CheckInTime)

	leave, err := NewLeaveDay(companyID, uuid.New(), day)
	require.NoError(t, err)
	assert.Equal(t, AttendanceOnLeave, leave.Status)

	assert.Error(t, absence.CheckOut(day, createTestSettings(t, companyID)), "no check-in to close")
}

func TestLeaveApplication_ApproveDebitsBalance(t *testing.T) {
	companyID := uuid.New()
	staffID := uuid.New()
	approverID := uuid.New()

	application, err := NewLeaveApplication(companyID, staffID, LeaveAnnual, time.Now(), 3, "family visit")
	require.NoError(t, err)

	balance, err := NewLeaveBalance(companyID, staffID, LeaveAnnual, 5)
	require.NoError(t, err)

	require.NoError(t, application.Approve(approverID, balance))
	assert.Equal(t, LeaveApproved, application.Status)
	assert.Equal(t, 2, balance.RemainingDays)
	require.NotNil(t, application.ApproverID)
	assert.Equal(t, approverID, *application.ApproverID)
}

func TestLeaveApplication_ApproveTwiceFails(t *testing.T) {
	companyID := uuid.New()
	staffID := uuid.New()

	application, err := NewLeaveApplication(companyID, staffID, LeaveUnpaid, time.Now(), 2, "")
	require.NoError(t, err)

	require.NoError(t, application.Approve(uuid.New(), nil))

	err = application.Approve(uuid.New(), nil)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	err = application.Reject(uuid.New())
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestLeaveApplication_SelfApprovalRejected(t *testing.T) {
	companyID := uuid.New()
	staffID := uuid.New()

	application, err := NewLeaveApplication(companyID, staffID, LeaveUnpaid, time.Now(), 1, "")
	require.NoError(t, err)

	assert.Error(t, application.Approve(staffID, nil))
	assert.Equal(t, LeavePending, application.Status)
}

func TestLeaveApplication_InsufficientBalance(t *testing.T) {
	companyID := uuid.New()
	staffID := uuid.New()

	balance, err := NewLeaveBalance(companyID, staffID, LeaveAnnual, 5)
	require.NoError(t, err)

	first, err := NewLeaveApplication(companyID, staffID, LeaveAnnual, time.Now(), 3, "")
	require.NoError(t, err)
	require.NoError(t, first.Approve(uuid.New(), balance))
	assert.Equal(t, 2, balance.RemainingDays)

	second, err := NewLeaveApplication(companyID, staffID, LeaveAnnual, time.Now().AddDate(0, 1, 0), 5, "")
	require.NoError(t, err)

	err = second.Approve(uuid.New(), balance)
	require.Error(t, err)
	assert.ErrorContains(t, err, "Insufficient leave balance")
	assert.Equal(t, LeavePending, second.Status, "failed approval must not change status")
	assert.Equal(t, 2, balance.RemainingDays, "failed approval must not debit")
}

func TestLeaveApplication_BalanceTenantMismatch(t *testing.T) {
	companyID := uuid.New()
	staffID := uuid.New()

	application, err := NewLeaveApplication(companyID, staffID, LeaveAnnual, time.Now(), 1, "")
	require.NoError(t, err)

	foreign, err := NewLeaveBalance(uuid.New(), staffID, LeaveAnnual, 10)
	require.NoError(t, err)

	assert.ErrorIs(t, application.Approve(uuid.New(), foreign), shared.ErrTenantMismatch)
}

func TestLeaveBalance_DebitCredit(t *testing.T) {
	balance, err := NewLeaveBalance(uuid.New(), uuid.New(), LeaveSick, 4)
	require.NoError(t, err)

	require.NoError(t, balance.Debit(4))
	assert.Equal(t, 0, balance.RemainingDays)
	assert.Error(t, balance.Debit(1))

	require.NoError(t, balance.Credit(2))
	assert.Equal(t, 2, balance.RemainingDays)
}

func createCalculatedPayroll(t *testing.T, companyID, periodID uuid.UUID, settings *PayrollSettings, rate int64) *StaffPayroll {
	payroll, err := NewStaffPayroll(companyID, periodID, uuid.New(), PayMonthly, decimal.NewFromInt(rate))
	require.NoError(t, err)
	require.NoError(t, payroll.SetAttendanceCounts(20, 1, 1, 0, decimal.Zero, 0))
	require.NoError(t, payroll.Calculate(settings))
	return payroll
}

func TestStaffPayroll_CalculateMonthly(t *testing.T) {
	companyID := uuid.New()
	settings := createTestSettings(t, companyID)
	require.NoError(t, settings.SetRates(decimal.NewFromInt(500), decimal.NewFromInt(1000)))
	require.NoError(t, settings.SetLatePenalty(true, decimal.NewFromInt(200)))

	payroll, err := NewStaffPayroll(companyID, uuid.New(), uuid.New(), PayMonthly, decimal.NewFromInt(3000))
	require.NoError(t, err)
	require.NoError(t, payroll.SetAttendanceCounts(18, 2, 1, 1, decimal.NewFromInt(4), 3))
	require.NoError(t, payroll.Calculate(settings))

	require.True(t, payroll.IsCalculated())
	// Monthly staff keep the quoted daily rate regardless of absences.
	assert.True(t, payroll.CalculatedDailyPay.Equal(decimal.NewFromInt(3000)))
	assert.True(t, payroll.CalculatedWeeklyPay.Equal(decimal.NewFromInt(21000)))
	// 22 days * 3000 + 4h * 500 overtime + 3 * 1000 night shift - 2 * 200 late
	assert.True(t, payroll.CalculatedMonthlyPay.Equal(decimal.NewFromInt(70600)),
		"got %s", payroll.CalculatedMonthlyPay)
}

func TestStaffPayroll_CalculateHourlyScalesByAttendance(t *testing.T) {
	companyID := uuid.New()
	settings := createTestSettings(t, companyID)

	payroll, err := NewStaffPayroll(companyID, uuid.New(), uuid.New(), PayHourly, decimal.NewFromInt(1000))
	require.NoError(t, err)
	// Half the scheduled days were absences, so the effective daily pay halves.
	require.NoError(t, payroll.SetAttendanceCounts(5, 0, 5, 0, decimal.Zero, 0))
	require.NoError(t, payroll.Calculate(settings))

	assert.True(t, payroll.CalculatedDailyPay.Equal(decimal.NewFromInt(500)))
	assert.True(t, payroll.CalculatedMonthlyPay.Equal(decimal.NewFromInt(5000)))
}

func TestStaffPayroll_CalculateZeroScheduledDays(t *testing.T) {
	companyID := uuid.New()
	settings := createTestSettings(t, companyID)

	payroll, err := NewStaffPayroll(companyID, uuid.New(), uuid.New(), PayDaily, decimal.NewFromInt(800))
	require.NoError(t, err)
	require.NoError(t, payroll.Calculate(settings))

	assert.True(t, payroll.CalculatedMonthlyPay.Equal(decimal.Zero))
}

func TestStaffPayroll_CalculateTenantMismatch(t *testing.T) {
	payroll, err := NewStaffPayroll(uuid.New(), uuid.New(), uuid.New(), PayMonthly, decimal.NewFromInt(100))
	require.NoError(t, err)

	foreign := createTestSettings(t, uuid.New())
	assert.ErrorIs(t, payroll.Calculate(foreign), shared.ErrTenantMismatch)
}

func TestNewPayrollPeriod_Validation(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewPayrollPeriod(uuid.Nil, start, start.AddDate(0, 1, 0))
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewPayrollPeriod(uuid.New(), start, start)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestPayrollPeriod_ProcessSumsCalculatedRows(t *testing.T) {
	companyID := uuid.New()
	settings := createTestSettings(t, companyID)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	period, err := NewPayrollPeriod(companyID, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)

	first := createCalculatedPayroll(t, companyID, period.ID, settings, 3000)
	second := createCalculatedPayroll(t, companyID, period.ID, settings, 2000)
	require.NoError(t, period.AddPayroll(first))
	require.NoError(t, period.AddPayroll(second))

	require.NoError(t, period.Process())
	assert.Equal(t, PayrollProcessed, period.Status)

	expected := first.CalculatedMonthlyPay.Add(*second.CalculatedMonthlyPay)
	assert.True(t, period.TotalAmount.Equal(expected))
	assert.NotNil(t, period.ProcessedAt)
}

func TestPayrollPeriod_AddAfterProcessedFails(t *testing.T) {
	companyID := uuid.New()
	settings := createTestSettings(t, companyID)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	period, err := NewPayrollPeriod(companyID, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	require.NoError(t, period.AddPayroll(createCalculatedPayroll(t, companyID, period.ID, settings, 3000)))
	require.NoError(t, period.Process())

	err = period.AddPayroll(createCalculatedPayroll(t, companyID, period.ID, settings, 1000))
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
}

func TestPayrollPeriod_ProcessRequiresCalculatedRows(t *testing.T) {
	companyID := uuid.New()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	period, err := NewPayrollPeriod(companyID, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)

	assert.Error(t, period.Process(), "empty period")

	uncalculated, err := NewStaffPayroll(companyID, period.ID, uuid.New(), PayMonthly, decimal.NewFromInt(3000))
	require.NoError(t, err)
	require.NoError(t, period.AddPayroll(uncalculated))

	assert.Error(t, period.Process())
}

func TestPayrollPeriod_DuplicateStaffRejected(t *testing.T) {
	companyID := uuid.New()
	settings := createTestSettings(t, companyID)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	period, err := NewPayrollPeriod(companyID, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)

	payroll := createCalculatedPayroll(t, companyID, period.ID, settings, 3000)
	require.NoError(t, period.AddPayroll(payroll))

	duplicate, err := NewStaffPayroll(companyID, period.ID, payroll.StaffID, PayMonthly, decimal.NewFromInt(3000))
	require.NoError(t, err)
	assert.Error(t, period.AddPayroll(duplicate))
}

func TestPayrollPeriod_Lifecycle(t *testing.T) {
	companyID := uuid.New()
	settings := createTestSettings(t, companyID)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	period, err := NewPayrollPeriod(companyID, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)

	assert.ErrorIs(t, period.MarkPaid(), shared.ErrInvalidTransition, "cannot pay a draft")
	assert.ErrorIs(t, period.Reopen(), shared.ErrInvalidTransition, "cannot reopen a draft")

	require.NoError(t, period.AddPayroll(createCalculatedPayroll(t, companyID, period.ID, settings, 3000)))
	require.NoError(t, period.Process())

	require.NoError(t, period.Reopen())
	assert.Equal(t, PayrollDraft, period.Status)
	assert.True(t, period.TotalAmount.IsZero())

	require.NoError(t, period.Process())
	require.NoError(t, period.MarkPaid())
	assert.Equal(t, PayrollPaid, period.Status)
	assert.NotNil(t, period.PaidAt)

	assert.ErrorIs(t, period.Reopen(), shared.ErrInvalidTransition, "paid is terminal")
	assert.ErrorIs(t, period.Process(), shared.ErrInvalidTransition)
}

func TestPayrollPeriod_TenantBoundary(t *testing.T) {
	companyID := uuid.New()

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	period, err := NewPayrollPeriod(companyID, start, start.AddDate(0, 1, 0))
	require.NoError(t, err)

	foreign, err := NewStaffPayroll(uuid.New(), period.ID, uuid.New(), PayMonthly, decimal.NewFromInt(100))
	require.NoError(t, err)

	assert.ErrorIs(t, period.AddPayroll(foreign), shared.ErrTenantMismatch)
}

func TestPayrollSettings_Validation(t *testing.T) {
	settings := createTestSettings(t, uuid.New())

	assert.Error(t, settings.SetClockWindow("8am", "17:00", 15))
	assert.Error(t, settings.SetClockWindow("08:00", "17:00", -1))
	require.NoError(t, settings.SetClockWindow("09:00", "18:00", 30))

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, day.Add(9*time.Hour+30*time.Minute), settings.LateThreshold(day))
	assert.Equal(t, day.Add(18*time.Hour), settings.ShiftEnd(day))

	assert.Error(t, settings.SetRates(decimal.NewFromInt(-1), decimal.Zero))
	assert.Error(t, settings.SetLatePenalty(true, decimal.NewFromInt(-5)))
}
