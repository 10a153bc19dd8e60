package models

import (
	"net/url"
	"strconv"
)

// Geolocation은 브라우저 위치 서비스가 넘겨준 위경도입니다.
type Geolocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// GridCoordinate는 기상청 5km 격자 좌표 (1부터 시작)입니다.
type GridCoordinate struct {
	NX int `json:"nx"`
	NY int `json:"ny"`
}

// ForecastQuery는 초단기예보 요청 하나를 완전히 결정합니다.
type ForecastQuery struct {
	BaseDate string `json:"base_date"` // YYYYMMDD
	BaseTime string `json:"base_time"` // HHmm
	NX       int    `json:"nx"`
	NY       int    `json:"ny"`
}

// Values는 프록시 엔드포인트에 붙일 쿼리 파라미터입니다.
func (q ForecastQuery) Values() url.Values {
	v := url.Values{}
	v.Set("base_date", q.BaseDate)
	v.Set("base_time", q.BaseTime)
	v.Set("nx", strconv.Itoa(q.NX))
	v.Set("ny", strconv.Itoa(q.NY))
	return v
}

// Key는 캐시 키로 쓰입니다.
func (q ForecastQuery) Key() string {
	return q.BaseDate + q.BaseTime + ":" + strconv.Itoa(q.NX) + "," + strconv.Itoa(q.NY)
}

// ForecastItem은 기상청 응답의 item 하나입니다.
type ForecastItem struct {
	BaseDate  string `json:"baseDate,omitempty"`
	BaseTime  string `json:"baseTime,omitempty"`
	Category  string `json:"category"`
	FcstDate  string `json:"fcstDate,omitempty"`
	FcstTime  string `json:"fcstTime"`
	FcstValue string `json:"fcstValue"`
	Nx        int    `json:"nx,omitempty"`
	Ny        int    `json:"ny,omitempty"`
}

// ForecastResponse는 기상청 API 응답 JSON 구조체입니다.
// response / body / items 가 빠진 응답을 구분하려고 포인터를 씁니다.
type ForecastResponse struct {
	Response *struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body *struct {
			DataType string `json:"dataType"`
			Items    *struct {
				Item []ForecastItem `json:"item"`
			} `json:"items"`
			PageNo     int `json:"pageNo"`
			NumOfRows  int `json:"numOfRows"`
			TotalCount int `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

// Items는 item 목록을 돌려줍니다. 구조가 빠져 있으면 ok=false.
func (r *ForecastResponse) Items() (items []ForecastItem, ok bool) {
	if r == nil || r.Response == nil || r.Response.Body == nil || r.Response.Body.Items == nil {
		return nil, false
	}
	return r.Response.Body.Items.Item, true
}

// HourlyForecast는 한 예보 시각에 모인 카테고리별 값입니다.
type HourlyForecast map[string]string

// GroupedForecast는 fcstTime -> 카테고리 값 묶음입니다.
type GroupedForecast map[string]HourlyForecast

// HourlyView는 화면에 그릴 한 줄입니다.
type HourlyView struct {
	Hour        string `json:"hour"`
	Label       string `json:"label"`
	Temperature string `json:"temperature"`
	Humidity    string `json:"humidity"`
	Rainfall    string `json:"rainfall"`
	Glyph       string `json:"glyph"`
}

// 격자 좌표 참고 (기상청 격자 엑셀)
// 구분	행정구역코드	1단계	2단계	3단계	격자 X	격자 Y	경도(초/100)	위도(초/100)
// kor	2729062800	대구광역시	달서구	도원동	88	89	128.5344	35.8044666666666
