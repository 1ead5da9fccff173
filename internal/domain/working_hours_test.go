package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func ts(s string) types.TimeString {
	return types.TimeString(s)
}

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}

// 2025-06-09 - понедельник
var monday = time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

// 2025-06-14 - суббота
var saturday = time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

func TestResolveWorkingDay_StaffSpecialDateWins(t *testing.T) {
	staff := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {IsActive: true, StartTime: ts("10:00"), EndTime: ts("18:00")},
		},
		SpecialDates: []SpecialDate{
			{Date: monday, StartTime: tsPtr("12:00"), EndTime: tsPtr("16:00")},
		},
	}
	business := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {IsActive: true, StartTime: ts("09:00"), EndTime: ts("21:00")},
		},
	}

	day := ResolveWorkingDay(staff, business, monday)
	require.True(t, day.Active)
	assert.Equal(t, ts("12:00"), day.StartTime)
	assert.Equal(t, ts("16:00"), day.EndTime)
}

func TestResolveWorkingDay_StaffSpecialDateClosed(t *testing.T) {
	staff := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {IsActive: true, StartTime: ts("10:00"), EndTime: ts("18:00")},
		},
		SpecialDates: []SpecialDate{
			{Date: monday, IsClosed: true},
		},
	}

	day := ResolveWorkingDay(staff, nil, monday)
	assert.False(t, day.Active)
}

func TestResolveWorkingDay_StaffWeekdayBeforeBusiness(t *testing.T) {
	staff := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {
				IsActive:  true,
				StartTime: ts("10:00"),
				EndTime:   ts("18:00"),
				Breaks:    []BreakInterval{{StartTime: ts("13:00"), EndTime: ts("14:00")}},
			},
		},
	}
	business := &WorkingHoursProfile{
		SpecialDates: []SpecialDate{
			{Date: monday, StartTime: tsPtr("08:00"), EndTime: tsPtr("22:00")},
		},
	}

	day := ResolveWorkingDay(staff, business, monday)
	require.True(t, day.Active)
	assert.Equal(t, ts("10:00"), day.StartTime)
	assert.Equal(t, ts("18:00"), day.EndTime)
	require.Len(t, day.Breaks, 1)
	assert.Equal(t, ts("13:00"), day.Breaks[0].StartTime)
}

func TestResolveWorkingDay_BusinessSpecialDateBeforeWeekday(t *testing.T) {
	business := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {IsActive: true, StartTime: ts("09:00"), EndTime: ts("21:00")},
		},
		SpecialDates: []SpecialDate{
			{Date: monday, StartTime: tsPtr("11:00"), EndTime: tsPtr("15:00")},
		},
	}

	day := ResolveWorkingDay(nil, business, monday)
	require.True(t, day.Active)
	assert.Equal(t, ts("11:00"), day.StartTime)
	assert.Equal(t, ts("15:00"), day.EndTime)
}

func TestResolveWorkingDay_InactiveWeekday(t *testing.T) {
	business := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {IsActive: false},
		},
	}

	day := ResolveWorkingDay(nil, business, monday)
	assert.False(t, day.Active)
}

func TestResolveWorkingDay_DefaultWindow(t *testing.T) {
	day := ResolveWorkingDay(nil, nil, monday)
	require.True(t, day.Active)
	assert.Equal(t, ts("09:00"), day.StartTime)
	assert.Equal(t, ts("20:00"), day.EndTime)
	assert.Empty(t, day.Breaks)
}

func TestResolveWorkingDay_DefaultSaturdayClosed(t *testing.T) {
	day := ResolveWorkingDay(nil, nil, saturday)
	assert.False(t, day.Active)
}

func TestResolveWorkingDay_EmptyProfilesFallThrough(t *testing.T) {
	// Профили есть, но про понедельник в них ничего нет - работает дефолт
	staff := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Tuesday: {IsActive: true, StartTime: ts("10:00"), EndTime: ts("18:00")},
		},
	}
	business := &WorkingHoursProfile{}

	day := ResolveWorkingDay(staff, business, monday)
	require.True(t, day.Active)
	assert.Equal(t, ts("09:00"), day.StartTime)
	assert.Equal(t, ts("20:00"), day.EndTime)
}

func TestWorkingHoursProfile_Validate(t *testing.T) {
	valid := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {
				IsActive:  true,
				StartTime: ts("09:00"),
				EndTime:   ts("18:00"),
				Breaks: []BreakInterval{
					{StartTime: ts("12:00"), EndTime: ts("13:00")},
					{StartTime: ts("15:00"), EndTime: ts("15:30")},
				},
			},
		},
	}
	assert.NoError(t, valid.Validate())

	inverted := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {IsActive: true, StartTime: ts("18:00"), EndTime: ts("09:00")},
		},
	}
	assert.Error(t, inverted.Validate())

	breakOutside := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {
				IsActive:  true,
				StartTime: ts("09:00"),
				EndTime:   ts("18:00"),
				Breaks:    []BreakInterval{{StartTime: ts("08:00"), EndTime: ts("10:00")}},
			},
		},
	}
	assert.Error(t, breakOutside.Validate())

	overlappingBreaks := &WorkingHoursProfile{
		Weekdays: map[time.Weekday]DayHours{
			time.Monday: {
				IsActive:  true,
				StartTime: ts("09:00"),
				EndTime:   ts("18:00"),
				Breaks: []BreakInterval{
					{StartTime: ts("12:00"), EndTime: ts("13:00")},
					{StartTime: ts("12:30"), EndTime: ts("14:00")},
				},
			},
		},
	}
	assert.Error(t, overlappingBreaks.Validate())
}

func TestSameCalendarDay(t *testing.T) {
	a := time.Date(2025, 6, 9, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, 6, 9, 0, 1, 0, 0, time.UTC)
	c := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameCalendarDay(a, b))
	assert.False(t, SameCalendarDay(a, c))
}

func TestResolvedDay_InBreak(t *testing.T) {
	day := ResolvedDay{
		Active:    true,
		StartTime: ts("09:00"),
		EndTime:   ts("20:00"),
		Breaks: []BreakInterval{
			{StartTime: ts("13:00"), EndTime: ts("14:00")},
		},
	}

	// Полуоткрытый интервал [13:00, 14:00): начало входит, конец - нет
	assert.True(t, day.InBreak(ts("13:00")))
	assert.True(t, day.InBreak(ts("13:40")))
	assert.False(t, day.InBreak(ts("14:00")))

	// Момент до перерыва не в перерыве, даже если интервал записи,
	// начатой в нем, накрыл бы перерыв
	assert.False(t, day.InBreak(ts("12:40")))
}
