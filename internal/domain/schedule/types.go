package schedule

// Frequency es la etiqueta de recurrencia de un medicamento.
// Es descriptiva: el timing real lo define TimeOfDay, no esta etiqueta.
// @Enum once-daily, twice-daily, three-times-daily, four-times-daily, every-other-day, weekly, as-needed
type Frequency string

const (
	FreqOnceDaily       Frequency = "once-daily"
	FreqTwiceDaily      Frequency = "twice-daily"
	FreqThreeTimesDaily Frequency = "three-times-daily"
	FreqFourTimesDaily  Frequency = "four-times-daily"
	FreqEveryOtherDay   Frequency = "every-other-day"
	FreqWeekly          Frequency = "weekly"
	FreqAsNeeded        Frequency = "as-needed"
)

// KnownFrequency valida contra el set cerrado de frecuencias.
func KnownFrequency(f Frequency) bool {
	switch f {
	case FreqOnceDaily, FreqTwiceDaily, FreqThreeTimesDaily,
		FreqFourTimesDaily, FreqEveryOtherDay, FreqWeekly, FreqAsNeeded:
		return true
	}
	return false
}

// Bucket es la clasificación temporal de un schedule para vistas de lista.
// @Enum current, past, future
type Bucket string

const (
	BucketCurrent Bucket = "current"
	BucketPast    Bucket = "past"
	BucketFuture  Bucket = "future"

	// BucketUnknown: schedule sin start date determinable.
	// No es current, ni past, ni future; el error se reporta upstream.
	BucketUnknown Bucket = "unknown"
)
