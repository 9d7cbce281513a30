package dto

import "github.com/noah-isme/coursereg-client/internal/models"

// RegisteredCoursesResponse is the registered-courses page payload.
type RegisteredCoursesResponse struct {
	Courses []models.CourseRecord      `json:"courses"`
	Summary models.RegistrationSummary `json:"summary"`
}

// EnrolledRefreshResponse reports the re-seeded enrolled ids.
type EnrolledRefreshResponse struct {
	IDs []int `json:"ids"`
}

// ExportQuery selects the rendered format of a download.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
