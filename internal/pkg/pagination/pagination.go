package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
	Offset  int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page         int   `json:"page"`
	PerPage      int   `json:"perPage"`
	TotalRecords int64 `json:"totalRecords"`
	TotalPages   int   `json:"totalPages"`
	HasNext      bool  `json:"hasNext"`
	HasPrev      bool  `json:"hasPrev"`
}

// DefaultPerPage is the default number of items per page
const DefaultPerPage = 10

// MaxPerPage is the maximum number of items per page
const MaxPerPage = 100

// GetParams extracts pagination parameters from request
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage, _ := strconv.Atoi(c.Query("perPage", strconv.Itoa(DefaultPerPage)))

	return New(page, perPage)
}

// New builds validated pagination params
func New(page, perPage int) *Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return &Params{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
	}
}

// GetMeta calculates pagination metadata.
// An empty result set still counts as one page.
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int(total) / params.PerPage
	if int(total)%params.PerPage > 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}

	return &Meta{
		Page:         params.Page,
		PerPage:      params.PerPage,
		TotalRecords: total,
		TotalPages:   totalPages,
		HasNext:      params.Page < totalPages,
		HasPrev:      params.Page > 1,
	}
}
