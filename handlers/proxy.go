package handlers

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"

	"github.com/mseongj/nowcast/models"
)

var (
	baseDatePattern = regexp.MustCompile(`^\d{8}$`)
	baseTimePattern = regexp.MustCompile(`^\d{4}$`)
)

// queryFromRequest는 base_date, base_time, nx, ny 파라미터를 검사합니다.
func queryFromRequest(r *http.Request) (models.ForecastQuery, error) {
	v := r.URL.Query()

	baseDate := v.Get("base_date")
	if !baseDatePattern.MatchString(baseDate) {
		return models.ForecastQuery{}, fmt.Errorf("base_date는 YYYYMMDD 형식이어야 합니다: %q", baseDate)
	}
	baseTime := v.Get("base_time")
	if !baseTimePattern.MatchString(baseTime) {
		return models.ForecastQuery{}, fmt.Errorf("base_time은 HHmm 형식이어야 합니다: %q", baseTime)
	}
	nx, err := strconv.Atoi(v.Get("nx"))
	if err != nil {
		return models.ForecastQuery{}, fmt.Errorf("nx가 올바르지 않습니다: %w", err)
	}
	ny, err := strconv.Atoi(v.Get("ny"))
	if err != nil {
		return models.ForecastQuery{}, fmt.Errorf("ny가 올바르지 않습니다: %w", err)
	}
	return models.ForecastQuery{BaseDate: baseDate, BaseTime: baseTime, NX: nx, NY: ny}, nil
}

// Proxy는 서비스 키를 붙여 기상청 초단기예보를 그대로 중계합니다.
func (h *Handlers) Proxy(w http.ResponseWriter, r *http.Request) {
	if h.upstream == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "API_KEY가 설정되지 않았습니다"})
		return
	}

	q, err := queryFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	body, status, err := h.upstream.Fetch(r.Context(), q)
	if err != nil {
		log.Printf("기상청 API 호출 실패 (%s): %v", q.Key(), err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "기상청 API 호출 실패"})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
