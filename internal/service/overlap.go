package service

import "time"

// Overlaps сообщает, пересекаются ли полуинтервалы [aStart, aEnd) и [bStart, bEnd).
// Соседние интервалы, где один заканчивается в день начала другого, не пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapsInclusive сообщает, пересекаются ли отрезки [aStart, aEnd] и [bStart, bEnd]
// с включёнными концами. Используется только фильтром периода в отчёте о загрузке.
func OverlapsInclusive(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aEnd.Before(bStart) && !aStart.After(bEnd)
}
