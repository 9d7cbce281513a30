package service

import (
	"sort"

	"github.com/noah-isme/coursereg-client/internal/models"
)

type catalogSnapshotter interface {
	Snapshot() []models.CourseRecord
}

type enrolledLister interface {
	IDs() []int
}

// TimetableService derives the weekly grid of enrolled courses. It holds no
// state of its own.
type TimetableService struct {
	catalog  catalogSnapshotter
	enrolled enrolledLister
}

// NewTimetableService constructs the service.
func NewTimetableService(catalog catalogSnapshotter, enrolled enrolledLister) *TimetableService {
	return &TimetableService{catalog: catalog, enrolled: enrolled}
}

// Current composes the grid from the present catalog and enrolled set.
func (s *TimetableService) Current() models.TimetableGrid {
	return ComposeTimetable(s.catalog.Snapshot(), s.enrolled.IDs())
}

// ComposeTimetable places every enrolled course on its weekday across its
// shifts. Courses are visited in catalog order and a later course overwrites
// the cells it shares with an earlier one. Each column is then split into runs
// of one course: the first cell of a run carries the course and the run length
// as Span, the rest are Covered. Courses that cannot be placed are listed by
// id in Unplaced; an end shift past the last shift is clamped.
func ComposeTimetable(courses []models.CourseRecord, enrolled []int) models.TimetableGrid {
	shifts := models.ShiftCount()
	days := make([]int, 0, models.LastWeekday-models.FirstWeekday+1)
	for day := models.FirstWeekday; day <= models.LastWeekday; day++ {
		days = append(days, day)
	}

	wanted := make(map[int]struct{}, len(enrolled))
	for _, id := range enrolled {
		wanted[id] = struct{}{}
	}

	// owners[d][s] is the index into courses that claimed (day, shift), or -1.
	owners := make([][]int, len(days))
	for d := range owners {
		owners[d] = make([]int, shifts)
		for s := range owners[d] {
			owners[d][s] = -1
		}
	}

	var unplaced []int
	for idx, course := range courses {
		if _, ok := wanted[course.ID]; !ok {
			continue
		}
		if course.DayOfWeek < models.FirstWeekday || course.DayOfWeek > models.LastWeekday ||
			course.BeginShift < 1 || course.BeginShift > shifts || course.EndShift < course.BeginShift {
			unplaced = append(unplaced, course.ID)
			continue
		}
		end := course.EndShift
		if end > shifts {
			end = shifts
		}
		column := owners[course.DayOfWeek-models.FirstWeekday]
		for shift := course.BeginShift; shift <= end; shift++ {
			column[shift-1] = idx
		}
	}
	sort.Ints(unplaced)

	rows := make([]models.TimetableRow, shifts)
	for s := range rows {
		rows[s] = models.TimetableRow{
			Shift: s + 1,
			Label: models.ShiftLabels[s],
			Cells: make([]models.TimetableCell, len(days)),
		}
	}
	for d, column := range owners {
		for s := 0; s < shifts; {
			owner := column[s]
			if owner < 0 {
				s++
				continue
			}
			run := 1
			for s+run < shifts && column[s+run] == owner {
				run++
			}
			course := courses[owner].Clone()
			rows[s].Cells[d] = models.TimetableCell{Course: &course, Span: run}
			for k := 1; k < run; k++ {
				rows[s+k].Cells[d] = models.TimetableCell{Covered: true}
			}
			s += run
		}
	}

	return models.TimetableGrid{Days: days, Rows: rows, Unplaced: unplaced}
}
