package report

import (
	v1 "github.com/aevon-lab/salesboard/internal/api/v1"
	"github.com/aevon-lab/salesboard/internal/cache"
	"github.com/aevon-lab/salesboard/internal/core/region"
)

// DatasetInfo describes one dataset key.
type DatasetInfo struct {
	Key   string      `json:"key"`
	State cache.State `json:"state"`
}

type DatasetsResponse struct {
	Datasets []DatasetInfo `json:"datasets"`
}

// RecordsResponse is the body of GET /v1/datasets/:dataset/records.
type RecordsResponse struct {
	Dataset  string      `json:"dataset"`
	Total    int         `json:"total"`
	Returned int         `json:"returned"`
	Records  []v1.Record `json:"records"`
}

type RefreshResponse struct {
	Status   string        `json:"status"`
	Datasets []DatasetInfo `json:"datasets"`
}

type RegionResponse struct {
	Address string `json:"address"`
	Key     string `json:"key"`
	region.Result
}
