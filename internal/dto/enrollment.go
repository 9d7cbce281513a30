package dto

import "github.com/noah-isme/coursereg-client/internal/models"

// OperationResultResponse partitions a bulk result for display.
type OperationResultResponse struct {
	OperationID string               `json:"operationId"`
	Kind        string               `json:"kind"`
	Succeeded   []string             `json:"succeeded"`
	Failed      []models.ItemOutcome `json:"failed"`
	Items       []models.ItemOutcome `json:"items"`
}

// NewOperationResultResponse builds the response view of a result.
func NewOperationResultResponse(result *models.OperationResult) OperationResultResponse {
	if result == nil {
		return OperationResultResponse{}
	}
	return OperationResultResponse{
		OperationID: result.OperationID,
		Kind:        string(result.Kind),
		Succeeded:   result.Succeeded(),
		Failed:      result.Failed(),
		Items:       result.Items,
	}
}
