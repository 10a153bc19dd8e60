package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mseongj/nowcast/display"
	"github.com/mseongj/nowcast/models"
)

// Fetcher는 초단기예보 item 목록을 가져옵니다. forecast.Client가 구현합니다.
type Fetcher interface {
	Fetch(ctx context.Context, q models.ForecastQuery) ([]models.ForecastItem, error)
}

// Upstream은 기상청 API 원문을 가져옵니다. kma.Upstream이 구현합니다.
type Upstream interface {
	Fetch(ctx context.Context, q models.ForecastQuery) ([]byte, int, error)
}

// Handlers는 라우트가 쓰는 의존성 묶음입니다.
type Handlers struct {
	fetcher  Fetcher
	upstream Upstream // nil이면 /proxy 비활성화
	board    *display.Board
	now      func() time.Time
}

func New(fetcher Fetcher, upstream Upstream, board *display.Board) *Handlers {
	return &Handlers{
		fetcher:  fetcher,
		upstream: upstream,
		board:    board,
		now:      time.Now,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Health는 상태 확인용입니다.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": h.now().Format(time.RFC3339),
	})
}
