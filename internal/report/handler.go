package report

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aevon-lab/salesboard/internal/core/filter"
	httperr "github.com/aevon-lab/salesboard/internal/core/errors"
	"github.com/aevon-lab/salesboard/internal/core/region"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all report API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/datasets", s.HandleListDatasets)
	r.GET("/v1/datasets/:dataset/summary", s.HandleSummary)
	r.GET("/v1/datasets/:dataset/items", s.HandleItems)
	r.GET("/v1/datasets/:dataset/records", s.HandleRecords)
	r.POST("/v1/refresh", s.HandleRefresh)
	r.GET("/v1/region", s.HandleRegion)
}

// HandleListDatasets handles GET /v1/datasets
func (s *Service) HandleListDatasets(c *gin.Context) {
	infos, err := s.Datasets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list datasets",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, DatasetsResponse{Datasets: infos})
}

// HandleSummary handles GET /v1/datasets/:dataset/summary
// Query parameters: purpose, sample_type, manager, from, to, min_sales,
// max_sales, use_cache
func (s *Service) HandleSummary(c *gin.Context) {
	criteria, useCache, ok := bindReportQuery(c)
	if !ok {
		return
	}

	summary, err := s.Summary(c.Request.Context(), c.Param("dataset"), criteria, useCache)
	if err != nil {
		writeError(c, err, "Failed to build summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HandleItems handles GET /v1/datasets/:dataset/items
// Query parameters: same as HandleSummary
func (s *Service) HandleItems(c *gin.Context) {
	criteria, useCache, ok := bindReportQuery(c)
	if !ok {
		return
	}

	items, err := s.Items(c.Request.Context(), c.Param("dataset"), criteria, useCache)
	if err != nil {
		writeError(c, err, "Failed to build item summary")
		return
	}
	c.JSON(http.StatusOK, items)
}

// HandleRecords handles GET /v1/datasets/:dataset/records
// Query parameters: filter parameters plus limit
func (s *Service) HandleRecords(c *gin.Context) {
	criteria, _, ok := bindReportQuery(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidQueryError,
				Message:   "Invalid query parameters",
				Details:   "limit must be a non-negative integer",
			})
			return
		}
		limit = n
	}

	dataset := c.Param("dataset")
	records, total, err := s.Records(c.Request.Context(), dataset, criteria, limit)
	if err != nil {
		writeError(c, err, "Failed to load records")
		return
	}
	c.JSON(http.StatusOK, RecordsResponse{
		Dataset:  dataset,
		Total:    total,
		Returned: len(records),
		Records:  records,
	})
}

// HandleRefresh handles POST /v1/refresh
func (s *Service) HandleRefresh(c *gin.Context) {
	if err := s.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpRefreshFailedError,
			Message:   "Failed to refresh datasets",
			Details:   err.Error(),
		})
		return
	}

	infos, err := s.Datasets(c.Request.Context())
	if err != nil {
		writeError(c, err, "Failed to list datasets")
		return
	}
	c.JSON(http.StatusOK, RefreshResponse{Status: "refreshed", Datasets: infos})
}

// HandleRegion handles GET /v1/region?address=
func (s *Service) HandleRegion(c *gin.Context) {
	var query struct {
		Address string `form:"address" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	res := region.Extract(query.Address)
	c.JSON(http.StatusOK, RegionResponse{Address: query.Address, Key: res.Key(), Result: res})
}

// bindReportQuery parses the filter and cache parameters, writing a 400 on
// failure.
func bindReportQuery(c *gin.Context) (filter.Criteria, bool, bool) {
	criteria, err := filter.ParseQuery(c.Request.URL.Query())
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidQueryError,
			Message:   "Invalid filter parameters",
			Details:   err.Error(),
		})
		return filter.Criteria{}, false, false
	}

	useCache := true
	if raw := c.Query("use_cache"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpInvalidQueryError,
				Message:   "Invalid query parameters",
				Details:   "use_cache must be a boolean",
			})
			return filter.Criteria{}, false, false
		}
		useCache = v
	}
	return criteria, useCache, true
}

func writeError(c *gin.Context, err error, message string) {
	if errors.Is(err, ErrUnknownDataset) {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpDatasetNotFoundError,
			Message:   "Unknown dataset",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   message,
		Details:   err.Error(),
	})
}
