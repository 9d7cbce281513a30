package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
)

func selectionPageParam(c *gin.Context) (models.SelectionPage, error) {
	page := models.SelectionPage(c.Param("page"))
	if !page.Valid() {
		return "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown selection page %q", page))
	}
	return page, nil
}
