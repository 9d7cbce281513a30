package dto

// SelectionUpdateRequest checks or unchecks course ids on a page.
type SelectionUpdateRequest struct {
	IDs     []int `json:"ids" validate:"required,min=1,dive,gt=0"`
	Checked *bool `json:"checked" validate:"required"`
}

// SelectionView is the current selection of a page. Codes lists the course
// codes of the selected ids for confirmation prompts.
type SelectionView struct {
	Page  string   `json:"page"`
	IDs   []int    `json:"ids"`
	Codes []string `json:"codes"`
}
