package workforce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hospos/backend/internal/domain/shared"
	"github.com/hospos/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[uuid.UUID]workforce.PayrollSettings // keyed by company
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[uuid.UUID]workforce.PayrollSettings)}
}

func (r *fakeSettingsRepo) FindForCompany(ctx context.Context, companyID uuid.UUID) (*workforce.PayrollSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	settings, ok := r.settings[companyID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := settings
	return &copied, nil
}

func (r *fakeSettingsRepo) Save(ctx context.Context, settings *workforce.PayrollSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[settings.CompanyID] = *settings
	return nil
}

func (r *fakeSettingsRepo) SaveWithLock(ctx context.Context, settings *workforce.PayrollSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.settings[settings.CompanyID]
	if !ok {
		return shared.ErrNotFound
	}
	if settings.Version <= stored.Version {
		return shared.ErrConcurrentModification
	}
	r.settings[settings.CompanyID] = *settings
	return nil
}

type attendanceFixture struct {
	svc            *AttendanceService
	attendanceRepo *fakeAttendanceRepo
	settingsRepo   *fakeSettingsRepo
	staffRepo      *fakeStaffRepo
	companyID      uuid.UUID
	staffID        uuid.UUID
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	leave := newLeaveFixture(t)
	f := &attendanceFixture{
		attendanceRepo: leave.attendanceRepo,
		settingsRepo:   newFakeSettingsRepo(),
		staffRepo:      leave.staffRepo,
		companyID:      leave.companyID,
		staffID:        leave.staffID,
	}
	f.svc = NewAttendanceService(f.attendanceRepo, f.settingsRepo, f.staffRepo, zap.NewNop())

	// Default window: clock-in from 08:00, late after 15 minutes, shift
	// ends 17:00.
	settings, err := workforce.NewPayrollSettings(f.companyID)
	require.NoError(t, err)
	require.NoError(t, f.settingsRepo.Save(context.Background(), settings))
	return f
}

func TestAttendanceService_CheckIn_Present(t *testing.T) {
	f := newAttendanceFixture(t)
	at := time.Date(2026, 3, 2, 8, 10, 0, 0, time.UTC)

	record, err := f.svc.CheckIn(context.Background(), f.companyID, f.staffID, at)
	require.NoError(t, err)
	assert.Equal(t, workforce.AttendancePresent, record.Status)
	require.NotNil(t, record.CheckInTime)
	assert.True(t, record.Day.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestAttendanceService_CheckIn_Late(t *testing.T) {
	f := newAttendanceFixture(t)
	at := time.Date(2026, 3, 2, 8, 40, 0, 0, time.UTC)

	record, err := f.svc.CheckIn(context.Background(), f.companyID, f.staffID, at)
	require.NoError(t, err)
	assert.Equal(t, workforce.AttendanceLate, record.Status)
}

func TestAttendanceService_CheckIn_OncePerDay(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 8, 10, 0, 0, time.UTC)

	_, err := f.svc.CheckIn(ctx, f.companyID, f.staffID, at)
	require.NoError(t, err)

	_, err = f.svc.CheckIn(ctx, f.companyID, f.staffID, at.Add(2*time.Hour))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestAttendanceService_CheckIn_InactiveStaff(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	member, err := f.staffRepo.FindByID(ctx, f.staffID)
	require.NoError(t, err)
	require.NoError(t, member.Deactivate())
	require.NoError(t, f.staffRepo.Save(ctx, member))

	_, err = f.svc.CheckIn(ctx, f.companyID, f.staffID, time.Date(2026, 3, 2, 8, 10, 0, 0, time.UTC))
	assert.ErrorIs(t, err, shared.ErrInvariantViolation)
}

func TestAttendanceService_CheckOut_BooksOvertime(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	in := time.Date(2026, 3, 2, 8, 10, 0, 0, time.UTC)

	_, err := f.svc.CheckIn(ctx, f.companyID, f.staffID, in)
	require.NoError(t, err)

	// Shift ends 17:00; clocking out at 19:00 books two overtime hours.
	out := time.Date(2026, 3, 2, 19, 0, 0, 0, time.UTC)
	record, err := f.svc.CheckOut(ctx, f.companyID, f.staffID, out)
	require.NoError(t, err)
	require.NotNil(t, record.CheckOutTime)
	assert.True(t, record.OvertimeHours.Equal(decimal.NewFromInt(2)))
}

func TestAttendanceService_CheckOut_Twice(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	in := time.Date(2026, 3, 2, 8, 10, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)

	_, err := f.svc.CheckIn(ctx, f.companyID, f.staffID, in)
	require.NoError(t, err)
	_, err = f.svc.CheckOut(ctx, f.companyID, f.staffID, out)
	require.NoError(t, err)

	_, err = f.svc.CheckOut(ctx, f.companyID, f.staffID, out.Add(time.Hour))
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
}

func TestAttendanceService_MarkAbsent(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	record, err := f.svc.MarkAbsent(ctx, f.companyID, f.staffID, day)
	require.NoError(t, err)
	assert.Equal(t, workforce.AttendanceAbsent, record.Status)

	_, err = f.svc.MarkAbsent(ctx, f.companyID, f.staffID, day)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestAttendanceService_AttendanceSheet(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, f.companyID, f.staffID, time.Date(2026, 3, 2, 8, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = f.svc.MarkAbsent(ctx, f.companyID, f.staffID, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	sheet, err := f.svc.AttendanceSheet(ctx, f.companyID, f.staffID,
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, sheet, 2)
}
