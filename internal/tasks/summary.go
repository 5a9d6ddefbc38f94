package tasks

import "time"

// Summary aggregates a task list for the home page.
type Summary struct {
	Total      int
	Pending    int
	InProgress int
	Completed  int
	Cancelled  int
	Overdue    int
}

// Summarize counts tasks per status. A task is overdue when it has a due
// date strictly before now and is not completed.
func Summarize(list []Task, now time.Time) Summary {
	s := Summary{Total: len(list)}
	for _, t := range list {
		switch t.Status {
		case StatusPending:
			s.Pending++
		case StatusInProgress:
			s.InProgress++
		case StatusCompleted:
			s.Completed++
		case StatusCancelled:
			s.Cancelled++
		}
		if t.Status != StatusCompleted && IsOverdueAt(t.DueDate, now) {
			s.Overdue++
		}
	}
	return s
}
