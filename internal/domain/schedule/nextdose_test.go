package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestNextDose_PicksEarliestRemainingToday(t *testing.T) {
	s := Schedule{
		Frequency: FreqTwiceDaily,
		TimeOfDay: []string{"08:00", "20:00"},
		StartDate: date(2025, 3, 10),
	}

	// now = hoy 09:00 => la de las 08 ya pasó, queda la de las 20.
	now := at(2025, 3, 10, 9, 0)
	next := NextDose(s, now)
	if next == nil {
		t.Fatalf("expected next dose, got nil")
	}
	if want := at(2025, 3, 10, 20, 0); !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *next)
	}
}

func TestNextDose_BeforeFirstDose_ReturnsFirst(t *testing.T) {
	s := Schedule{
		TimeOfDay: []string{"08:00", "14:00", "20:00"},
		StartDate: date(2025, 3, 10),
	}

	now := at(2025, 3, 10, 6, 30)
	next := NextDose(s, now)
	if next == nil {
		t.Fatalf("expected next dose, got nil")
	}
	if want := at(2025, 3, 10, 8, 0); !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *next)
	}
}

func TestNextDose_AfterLastDose_RollsToFirstListedTomorrow(t *testing.T) {
	// El rollover siempre usa TimeOfDay[0], aun con lista desordenada.
	s := Schedule{
		TimeOfDay: []string{"20:00", "08:00"},
		StartDate: date(2025, 3, 10),
	}

	now := at(2025, 3, 10, 21, 0)
	next := NextDose(s, now)
	if next == nil {
		t.Fatalf("expected next dose, got nil")
	}
	if want := at(2025, 3, 11, 20, 0); !next.Equal(want) {
		t.Fatalf("expected rollover to TimeOfDay[0] tomorrow (%v), got %v", want, *next)
	}
}

func TestNextDose_ExactDoseInstant_IsExclusive(t *testing.T) {
	s := Schedule{
		TimeOfDay: []string{"08:00"},
		StartDate: date(2025, 3, 10),
	}

	// now == 08:00 en punto: el candidato no es estrictamente posterior,
	// rueda a mañana 08:00.
	now := at(2025, 3, 10, 8, 0)
	next := NextDose(s, now)
	if next == nil {
		t.Fatalf("expected next dose, got nil")
	}
	if want := at(2025, 3, 11, 8, 0); !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *next)
	}
}

func TestNextDose_EndsToday_RolloverStillReturned(t *testing.T) {
	// Si EndDate cae hoy, el rollover igual se calcula: esconder el
	// medicamento vencido es responsabilidad del filtrado por actividad.
	s := Schedule{
		TimeOfDay: []string{"08:00"},
		StartDate: date(2025, 3, 10),
		EndDate:   datePtr(2025, 3, 10),
	}

	now := at(2025, 3, 10, 9, 0)
	next := NextDose(s, now)
	if next == nil {
		t.Fatalf("expected rollover dose even past end date, got nil")
	}
	if want := at(2025, 3, 11, 8, 0); !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *next)
	}
}

func TestNextDose_InactiveSchedules_ReturnNil(t *testing.T) {
	cases := []struct {
		name string
		s    Schedule
		now  time.Time
	}{
		{
			name: "before start date",
			s: Schedule{
				TimeOfDay: []string{"08:00"},
				StartDate: date(2025, 3, 15),
			},
			now: at(2025, 3, 10, 9, 0),
		},
		{
			name: "after end date",
			s: Schedule{
				TimeOfDay: []string{"08:00"},
				StartDate: date(2025, 3, 1),
				EndDate:   datePtr(2025, 3, 5),
			},
			now: at(2025, 3, 10, 9, 0),
		},
		{
			name: "missing start date",
			s: Schedule{
				TimeOfDay: []string{"08:00"},
			},
			now: at(2025, 3, 10, 9, 0),
		},
		{
			name: "end before start never active",
			s: Schedule{
				TimeOfDay: []string{"08:00"},
				StartDate: date(2025, 3, 10),
				EndDate:   datePtr(2025, 3, 5),
			},
			now: at(2025, 3, 10, 9, 0),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if next := NextDose(tc.s, tc.now); next != nil {
				t.Fatalf("expected nil, got %v", *next)
			}
		})
	}
}

func TestNextDose_EmptyTimeOfDay_ReturnsNil(t *testing.T) {
	s := Schedule{
		StartDate: date(2025, 3, 10),
	}
	if next := NextDose(s, at(2025, 3, 10, 9, 0)); next != nil {
		t.Fatalf("expected nil for empty time_of_day, got %v", *next)
	}
}

func TestNextDose_SkipsUnparseableEntries(t *testing.T) {
	s := Schedule{
		TimeOfDay: []string{"25:99", "20:00"},
		StartDate: date(2025, 3, 10),
	}

	now := at(2025, 3, 10, 9, 0)
	next := NextDose(s, now)
	if next == nil {
		t.Fatalf("expected next dose, got nil")
	}
	if want := at(2025, 3, 10, 20, 0); !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *next)
	}

	// Rollover con TimeOfDay[0] roto: no hay resultado calculable.
	if next := NextDose(s, at(2025, 3, 10, 21, 0)); next != nil {
		t.Fatalf("expected nil when rollover slot is unparseable, got %v", *next)
	}
}

func TestNextDose_DuplicateTimesCollapse(t *testing.T) {
	s := Schedule{
		TimeOfDay: []string{"08:00", "08:00"},
		StartDate: date(2025, 3, 10),
	}

	now := at(2025, 3, 10, 7, 0)
	next := NextDose(s, now)
	if next == nil {
		t.Fatalf("expected next dose, got nil")
	}
	if want := at(2025, 3, 10, 8, 0); !next.Equal(want) {
		t.Fatalf("expected %v, got %v", want, *next)
	}
}
