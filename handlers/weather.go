package handlers

import (
	"errors"
	"fmt"
	"html"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/mseongj/nowcast/forecast"
	"github.com/mseongj/nowcast/kma"
	"github.com/mseongj/nowcast/models"
)

// ErrLocationUnavailable은 브라우저가 위치를 주지 못했을 때입니다.
var ErrLocationUnavailable = errors.New("위치 정보를 사용할 수 없습니다")

const (
	msgUnavailable = "위치 정보를 사용할 수 없습니다."
	msgNoData      = "날씨 정보가 없습니다."
	msgFetchFailed = "날씨 정보를 가져오는 데 실패했습니다."
	msgNotYet      = "아직 조회한 날씨 정보가 없습니다."
)

// locationFromRequest는 브라우저 geolocation 결과를 읽습니다.
// 실패 콜백은 error 파라미터로 넘어옵니다.
func locationFromRequest(r *http.Request) (models.Geolocation, error) {
	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		return models.Geolocation{}, fmt.Errorf("%w: %s", ErrLocationUnavailable, reason)
	}
	lat, err := parseCoord(q.Get("lat"))
	if err != nil {
		return models.Geolocation{}, fmt.Errorf("%w: lat: %v", ErrLocationUnavailable, err)
	}
	lon, err := parseCoord(q.Get("lon"))
	if err != nil {
		return models.Geolocation{}, fmt.Errorf("%w: lon: %v", ErrLocationUnavailable, err)
	}
	return models.Geolocation{Latitude: lat, Longitude: lon}, nil
}

func parseCoord(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("값이 없습니다")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("유효하지 않은 값 %q", s)
	}
	return v, nil
}

// GetWeather는 현재 위치의 초단기예보를 HTML 조각으로 돌려주고 Board에 게시합니다.
func (h *Handlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	token := h.board.Begin()
	fragment := h.renderWeather(r)
	if !h.board.Publish(token, fragment) {
		log.Printf("요청 %d 결과는 더 최근 결과가 있어 게시하지 않음", token)
	}
	fmt.Fprint(w, fragment)
}

// GetLatest는 Board에 마지막으로 게시된 결과를 돌려줍니다.
func (h *Handlers) GetLatest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	content, _, ok := h.board.Latest()
	if !ok {
		fmt.Fprint(w, errorFragment(msgNotYet))
		return
	}
	fmt.Fprint(w, content)
}

func (h *Handlers) renderWeather(r *http.Request) string {
	loc, err := locationFromRequest(r)
	if err != nil {
		log.Printf("위치 정보 없음: %v", err)
		return errorFragment(msgUnavailable)
	}

	grid := kma.ToGrid(loc.Latitude, loc.Longitude)
	if !kma.InCoverage(grid) {
		log.Printf("경고: 격자 좌표가 예보 영역 밖입니다: nx=%d, ny=%d", grid.NX, grid.NY)
	}
	log.Printf("격자 좌표: nx=%d, ny=%d", grid.NX, grid.NY)

	q := kma.NewQuery(h.now().In(kma.KST), grid)
	items, err := h.fetcher.Fetch(r.Context(), q)
	switch {
	case errors.Is(err, forecast.ErrNoData):
		log.Printf("날씨 데이터 없음 (%s): %v", q.Key(), err)
		return errorFragment(msgNoData)
	case err != nil:
		log.Printf("날씨 데이터 가져오기 실패 (%s): %v", q.Key(), err)
		return errorFragment(msgFetchFailed)
	}

	views := forecast.Views(items)
	if len(views) == 0 {
		return errorFragment(msgNoData)
	}
	return renderViews(views)
}

func errorFragment(msg string) string {
	return fmt.Sprintf(`<p class="error">%s</p>`, html.EscapeString(msg))
}

// 날씨 데이터 렌더링 함수 분리
func renderViews(views []models.HourlyView) string {
	var b strings.Builder
	for _, v := range views {
		fmt.Fprintf(&b, `
<div class="weather-item">
	<h3>%s</h3>
	<p>기온: %s°C</p>
	<p>습도: %s%%</p>
	<p>강수량: %s</p>
	<p>현재 날씨: %s</p>
</div>`,
			html.EscapeString(v.Label),
			html.EscapeString(v.Temperature),
			html.EscapeString(v.Humidity),
			html.EscapeString(v.Rainfall),
			v.Glyph)
	}
	return b.String()
}

// GetGrid는 위경도를 격자 좌표로 바꿔 JSON으로 돌려줍니다.
func (h *Handlers) GetGrid(w http.ResponseWriter, r *http.Request) {
	loc, err := locationFromRequest(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, kma.ToGrid(loc.Latitude, loc.Longitude))
}

// GetBaseTime은 지금 조회해야 할 발표 일자/시각을 돌려줍니다.
func (h *Handlers) GetBaseTime(w http.ResponseWriter, r *http.Request) {
	baseDate, baseTime := kma.BaseDateTime(h.now().In(kma.KST))
	writeJSON(w, http.StatusOK, map[string]string{
		"base_date": baseDate,
		"base_time": baseTime,
	})
}
