package sdk

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/flotilla-ml/flotilla/training"
)

const passesEndpoint = "/passes"

type PassRequest struct {
	Config       training.Config `json:"config"`
	Kind         string          `json:"kind,omitempty"`
	Examples     int             `json:"examples,omitempty"`
	Features     int             `json:"features,omitempty"`
	Noise        float64         `json:"noise,omitempty"`
	Seed         int64           `json:"seed,omitempty"`
	LearningRate float64         `json:"learning_rate,omitempty"`
}

type Pass struct {
	ID         string          `json:"id"`
	State      string          `json:"state"`
	Config     training.Config `json:"config"`
	CreatedAt  time.Time       `json:"created_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Iterations int             `json:"iterations"`
	Score      float64         `json:"score"`
	Error      string          `json:"error,omitempty"`
	Stats      any             `json:"stats,omitempty"`
}

type PassPage struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
	Total  uint64 `json:"total"`
	Passes []Pass `json:"passes"`
}

func (sdk *flotillaSDK) StartPass(req PassRequest) (Pass, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return Pass{}, err
	}

	url := sdk.masterURL + passesEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, data, http.StatusAccepted)
	if err != nil {
		return Pass{}, err
	}

	var p Pass
	if err := json.Unmarshal(body, &p); err != nil {
		return Pass{}, err
	}

	return p, nil
}

func (sdk *flotillaSDK) GetPass(id string) (Pass, error) {
	url := sdk.masterURL + passesEndpoint + "/" + id

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return Pass{}, err
	}

	var p Pass
	if err := json.Unmarshal(body, &p); err != nil {
		return Pass{}, err
	}

	return p, nil
}

func (sdk *flotillaSDK) ListPasses(offset, limit uint64) (PassPage, error) {
	queries := make([]string, 0)
	if offset > 0 {
		queries = append(queries, fmt.Sprintf("offset=%d", offset))
	}
	if limit > 0 {
		queries = append(queries, fmt.Sprintf("limit=%d", limit))
	}
	query := ""
	if len(queries) > 0 {
		query = "?" + strings.Join(queries, "&")
	}
	url := sdk.masterURL + passesEndpoint + query

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return PassPage{}, err
	}

	var p PassPage
	if err := json.Unmarshal(body, &p); err != nil {
		return PassPage{}, err
	}

	return p, nil
}
