package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlaps(t *testing.T) {
	// Пересекающиеся интервалы
	assert.True(t, Overlaps(ts("10:00"), ts("11:00"), ts("10:30"), ts("11:30")))
	assert.True(t, Overlaps(ts("10:00"), ts("12:00"), ts("10:30"), ts("11:00")))

	// Граничащие интервалы пересечением не считаются
	assert.False(t, Overlaps(ts("10:00"), ts("11:00"), ts("11:00"), ts("12:00")))
	assert.False(t, Overlaps(ts("11:00"), ts("12:00"), ts("10:00"), ts("11:00")))

	// Непересекающиеся
	assert.False(t, Overlaps(ts("10:00"), ts("11:00"), ts("12:00"), ts("13:00")))
}

func TestIntervalFree(t *testing.T) {
	booked := []BookedInterval{
		{Start: ts("10:00"), End: ts("11:00")},
		{Start: ts("14:00"), End: ts("15:00")},
	}

	// Свободный интервал между записями
	assert.True(t, IntervalFree(ts("11:00"), ts("12:00"), booked, 0))
	assert.True(t, IntervalFree(ts("12:00"), ts("14:00"), booked, 0))

	// Пересечение с записью
	assert.False(t, IntervalFree(ts("10:30"), ts("11:30"), booked, 0))
	assert.False(t, IntervalFree(ts("09:30"), ts("10:30"), booked, 0))

	// Интервал целиком внутри записи
	assert.False(t, IntervalFree(ts("10:15"), ts("10:45"), booked, 0))
}

func TestIntervalFree_RestTime(t *testing.T) {
	booked := []BookedInterval{
		{Start: ts("10:00"), End: ts("11:00")},
	}

	// Без буфера 11:00 свободно, с буфером 15 минут - занято до 11:15
	assert.True(t, IntervalFree(ts("11:00"), ts("12:00"), booked, 0))
	assert.False(t, IntervalFree(ts("11:00"), ts("12:00"), booked, 15))
	assert.False(t, IntervalFree(ts("11:10"), ts("12:00"), booked, 15))
	assert.True(t, IntervalFree(ts("11:15"), ts("12:00"), booked, 15))
}

func TestIntervalFree_RestTimeClampedAtMidnight(t *testing.T) {
	booked := []BookedInterval{
		{Start: ts("23:00"), End: ts("23:50")},
	}

	// Буфер упирается в конец суток и не переносится на следующий день
	assert.False(t, IntervalFree(ts("23:50"), ts("23:59"), booked, 30))
	assert.True(t, IntervalFree(ts("22:00"), ts("23:00"), booked, 30))
}

func TestIntervalFree_EmptyBooked(t *testing.T) {
	assert.True(t, IntervalFree(ts("10:00"), ts("11:00"), nil, 15))
}

func TestAppointment_IsActive(t *testing.T) {
	for status, want := range map[AppointmentStatus]bool{
		StatusBooked:    true,
		StatusConfirmed: true,
		StatusCompleted: true,
		StatusCanceled:  false,
		StatusNoShow:    false,
	} {
		a := &Appointment{Status: status}
		assert.Equal(t, want, a.IsActive(), "status=%s", status)
	}
}

func TestAppointment_DurationConsistent(t *testing.T) {
	a := &Appointment{StartTime: ts("10:00"), EndTime: ts("11:00"), DurationMinutes: 60}
	assert.True(t, a.DurationConsistent())

	a.DurationMinutes = 45
	assert.False(t, a.DurationConsistent())
}

func TestAppointmentFieldUpdate_IsEmpty(t *testing.T) {
	var u AppointmentFieldUpdate
	assert.True(t, u.IsEmpty())

	start := ts("10:00")
	u.StartTime = &start
	assert.False(t, u.IsEmpty())
}
