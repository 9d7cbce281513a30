package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/coursereg-client/internal/models"
)

func sampleCourses() []models.CourseRecord {
	lecturer := "Dr. Tran"
	return []models.CourseRecord{
		{ID: 10, CourseID: "CS101", RegisteredNumber: 29, TotalNumber: 30, DayOfWeek: 2, BeginShift: 1, EndShift: 3, LecturerName: &lecturer},
		{ID: 11, CourseID: "CS102", RegisteredNumber: 5, TotalNumber: 40, DayOfWeek: 3, BeginShift: 4, EndShift: 5},
		{ID: 12, CourseID: "MA201", RegisteredNumber: 0, TotalNumber: 25, DayOfWeek: 4, BeginShift: 6, EndShift: 8},
	}
}

func TestCourseCatalogLoadKeepsOrder(t *testing.T) {
	catalog := NewCourseCatalog()
	assert.False(t, catalog.Loaded())

	catalog.Load(sampleCourses())

	require.True(t, catalog.Loaded())
	snapshot := catalog.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, []int{10, 11, 12}, []int{snapshot[0].ID, snapshot[1].ID, snapshot[2].ID})
}

func TestCourseCatalogLoadReplacesWholesale(t *testing.T) {
	catalog := NewCourseCatalog()
	catalog.Load(sampleCourses())
	catalog.Load([]models.CourseRecord{{ID: 99, CourseID: "PH100"}})

	assert.Equal(t, 1, catalog.Len())
	_, ok := catalog.Get(10)
	assert.False(t, ok)
}

func TestCourseCatalogDeltaIdempotent(t *testing.T) {
	once := NewCourseCatalog()
	once.Load(sampleCourses())
	twice := NewCourseCatalog()
	twice.Load(sampleCourses())

	assert.True(t, once.ApplyDelta(11, 7))
	assert.True(t, twice.ApplyDelta(11, 7))
	assert.True(t, twice.ApplyDelta(11, 7))

	assert.Equal(t, once.Snapshot(), twice.Snapshot())
}

func TestCourseCatalogUnknownDeltaIgnored(t *testing.T) {
	catalog := NewCourseCatalog()
	catalog.Load(sampleCourses())
	before := catalog.Snapshot()

	assert.NotPanics(t, func() {
		assert.False(t, catalog.ApplyDelta(404, 3))
	})

	assert.Equal(t, before, catalog.Snapshot())
	_, ok := catalog.Get(404)
	assert.False(t, ok)
}

func TestCourseCatalogPerIDLastWriteWins(t *testing.T) {
	catalog := NewCourseCatalog()
	catalog.Load(sampleCourses())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			catalog.ApplyDelta(12, i)
		}
	}()
	for _, count := range []int{5, 3, 9} {
		catalog.ApplyDelta(10, count)
	}
	wg.Wait()

	record, ok := catalog.Get(10)
	require.True(t, ok)
	assert.Equal(t, 9, record.RegisteredNumber)
}

func TestCourseCatalogSeatCountAboveCapacityTolerated(t *testing.T) {
	catalog := NewCourseCatalog()
	catalog.Load(sampleCourses())

	assert.True(t, catalog.ApplyDelta(10, 45))
	record, _ := catalog.Get(10)
	assert.Equal(t, 45, record.RegisteredNumber)
	assert.True(t, record.Full())
}

func TestCourseCatalogSnapshotIsolation(t *testing.T) {
	catalog := NewCourseCatalog()
	catalog.Load(sampleCourses())

	snapshot := catalog.Snapshot()
	snapshot[0].RegisteredNumber = 0
	snapshot[0].Subject.SubjectName = "changed"
	*snapshot[0].LecturerName = "changed"

	record, _ := catalog.Get(10)
	assert.Equal(t, 29, record.RegisteredNumber)
	assert.Equal(t, "Dr. Tran", record.Lecturer())
	assert.Empty(t, record.Subject.SubjectName)
}

func TestCourseCatalogE2EDelta(t *testing.T) {
	catalog := NewCourseCatalog()
	catalog.Load(sampleCourses())
	before := catalog.Snapshot()

	require.True(t, catalog.ApplyDelta(10, 30))

	after := catalog.Snapshot()
	assert.Equal(t, 30, after[0].RegisteredNumber)
	assert.Equal(t, before[1:], after[1:])
}

func TestCourseCatalogIDsByCode(t *testing.T) {
	catalog := NewCourseCatalog()
	records := append(sampleCourses(), models.CourseRecord{ID: 13, CourseID: "CS101"})
	catalog.Load(records)

	assert.Equal(t, []int{10, 13}, catalog.IDsByCode("CS101"))
	assert.Empty(t, catalog.IDsByCode("XX000"))
}
