package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/presentation/http/dto/response"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/pagination"
	"github.com/declaramei/express-api/pkg/utils"
)

const dateLayout = "2006-01-02"

// pageParams builds clamped pagination parameters from query values
func pageParams(page, perPage int) *pagination.PaginationParams {
	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}
	params.Validate()
	return params
}

// parseIDParam reads a UUID path parameter and writes a 400 when it is malformed
func parseIDParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+resource+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses a UUID that was already validated by binding
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id, err := utils.ParseUUID(s)
	if err != nil {
		return nil
	}
	return &id
}

// optionalDate parses a YYYY-MM-DD value in the server's local time zone
func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil
	}
	return &d
}

// endOfDay moves a date to the last instant of that day
func endOfDay(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	end := d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end
}

func fieldError(field, message string) error {
	return apperror.NewFieldError(field, message)
}
