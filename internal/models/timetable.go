package models

// Weekdays are numbered the way the portal numbers them: 2 is Monday and 7 is
// Saturday.
const (
	FirstWeekday = 2
	LastWeekday  = 7
)

// ShiftLabels lists the institution's daily shifts; shift n is ShiftLabels[n-1].
var ShiftLabels = []string{
	"7:30 - 8:15",
	"8:15 - 9:00",
	"9:00 - 9:45",
	"10:00 - 10:45",
	"10:45 - 11:30",
	"13:00 - 13:45",
	"13:45 - 14:30",
	"14:30 - 15:15",
	"15:30 - 16:15",
	"16:15 - 17:00",
}

var weekdayNames = map[int]string{
	2: "Monday",
	3: "Tuesday",
	4: "Wednesday",
	5: "Thursday",
	6: "Friday",
	7: "Saturday",
}

// WeekdayName returns the English name of a portal weekday number.
func WeekdayName(day int) string {
	return weekdayNames[day]
}

// ShiftCount is the number of shifts per day.
func ShiftCount() int {
	return len(ShiftLabels)
}

// TimetableCell is one (day, shift) slot. The first shift of a course run
// carries the course and its Span; the following shifts are Covered.
type TimetableCell struct {
	Course  *CourseRecord `json:"course,omitempty"`
	Span    int           `json:"span,omitempty"`
	Covered bool          `json:"covered,omitempty"`
}

// Empty reports whether nothing occupies the cell.
func (c TimetableCell) Empty() bool {
	return c.Course == nil && !c.Covered
}

// TimetableRow holds the cells of one shift across all weekdays.
type TimetableRow struct {
	Shift int             `json:"shift"`
	Label string          `json:"label"`
	Cells []TimetableCell `json:"cells"`
}

// TimetableGrid is the weekly day × shift view of enrolled courses.
type TimetableGrid struct {
	Days     []int          `json:"days"`
	Rows     []TimetableRow `json:"rows"`
	Unplaced []int          `json:"unplaced,omitempty"`
}

// Cell returns the cell at a portal weekday and 1-based shift.
func (g TimetableGrid) Cell(day, shift int) (TimetableCell, bool) {
	if shift < 1 || shift > len(g.Rows) {
		return TimetableCell{}, false
	}
	for i, d := range g.Days {
		if d == day {
			cells := g.Rows[shift-1].Cells
			if i >= len(cells) {
				return TimetableCell{}, false
			}
			return cells[i], true
		}
	}
	return TimetableCell{}, false
}
