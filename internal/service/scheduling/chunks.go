package scheduling

import (
	"time"

	"production-scheduler/internal/calendar"
	"production-scheduler/internal/storage"
)

// после каждого куска курсор сдвигается на минуту
const chunkGap = time.Minute

type Chunk struct {
	Start time.Time
	End   time.Time
}

func (c Chunk) Duration() time.Duration {
	return c.End.Sub(c.Start)
}

// ScheduleChunks режет работу длительностью total на куски, не выходящие за смену
// и не попадающие на нерабочие дни. Возвращает куски и конец последнего.
func ScheduleChunks(total time.Duration, cal calendar.Calendar, start time.Time) ([]Chunk, time.Time) {
	cursor := cal.NextWorkingInstant(start)
	if total <= 0 {
		return nil, cursor
	}

	var chunks []Chunk
	remaining := total

	for remaining > 0 {
		cursor = cal.NextWorkingInstant(cursor)

		available := cal.ShiftHoursAvailable(cursor)
		if available <= 0 {
			cursor = cursor.Add(chunkGap)
			continue
		}

		worked := min(available, remaining)
		end := cursor.Add(worked)
		chunks = append(chunks, Chunk{Start: cursor, End: end})

		remaining -= worked
		cursor = end.Add(chunkGap)
	}

	return chunks, chunks[len(chunks)-1].End
}

// ReadyAt момент, когда готова первая мин. партия этапа: его старт плюс время мин. партии.
// Смену не учитывает, в рабочее время момент приводит NextWorkingInstant следующего этапа.
func ReadyAt(start time.Time, minBatch time.Duration) time.Time {
	return start.Add(minBatch)
}

// splitQuantity раскладывает количество по кускам пропорционально времени, остаток уходит в последний кусок.
func splitQuantity(chunks []Chunk, qty float64) []storage.ScheduleChunk {
	var total time.Duration
	for _, c := range chunks {
		total += c.Duration()
	}

	out := make([]storage.ScheduleChunk, len(chunks))
	left := qty
	for i, c := range chunks {
		q := left
		if i < len(chunks)-1 && total > 0 {
			q = qty * float64(c.Duration()) / float64(total)
			left -= q
		}
		out[i] = storage.ScheduleChunk{Start: c.Start, End: c.End, Quantity: q}
	}

	return out
}

func later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
