package forecast

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mseongj/nowcast/models"
)

// 화면에 쓰는 카테고리
const (
	CategoryTemperature = "T1H" // 기온
	CategoryRainfall    = "RN1" // 1시간 강수량
	CategorySky         = "SKY" // 하늘상태
	CategoryHumidity    = "REH" // 습도
	CategoryPrecipType  = "PTY" // 강수형태
)

var displayed = map[string]bool{
	CategoryTemperature: true,
	CategoryRainfall:    true,
	CategorySky:         true,
	CategoryHumidity:    true,
	CategoryPrecipType:  true,
}

// NoPrecipitation은 RN1에 강수가 없을 때 기상청이 보내는 값입니다.
const NoPrecipitation = "강수없음"

const notAvailable = "N/A"

// glyphRule은 (SKY, PTY) 조합 하나. 빈 문자열은 아무 값이나 허용.
type glyphRule struct {
	sky, pty string
	glyph    string
}

// 위에서부터 먼저 맞는 규칙을 씁니다.
var glyphRules = []glyphRule{
	{sky: "1", pty: "1", glyph: "🌧️"},   // 비
	{sky: "1", pty: "2", glyph: "❄️🌧️"}, // 비/눈
	{sky: "1", pty: "3", glyph: "❄️"},   // 눈
	{sky: "3", glyph: "☁️"},            // 구름많음
	{sky: "4", glyph: "🌫️"},            // 흐림
}

const defaultGlyph = "☀️" // 맑음

// Filter는 화면에 쓰는 카테고리만 남깁니다.
func Filter(items []models.ForecastItem) []models.ForecastItem {
	out := make([]models.ForecastItem, 0, len(items))
	for _, item := range items {
		if displayed[item.Category] {
			out = append(out, item)
		}
	}
	return out
}

// Group은 예보 시각별로 카테고리 값을 모읍니다. 같은 (시각, 카테고리)는 나중 값이 이깁니다.
func Group(items []models.ForecastItem) models.GroupedForecast {
	grouped := make(models.GroupedForecast)
	for _, item := range items {
		hour, ok := grouped[item.FcstTime]
		if !ok {
			hour = make(models.HourlyForecast)
			grouped[item.FcstTime] = hour
		}
		hour[item.Category] = item.FcstValue
	}
	return grouped
}

// SortedHours는 시각을 숫자 기준 오름차순으로 정렬합니다.
func SortedHours(grouped models.GroupedForecast) []string {
	hours := make([]string, 0, len(grouped))
	for h := range grouped {
		hours = append(hours, h)
	}
	SortHours(hours)
	return hours
}

// SortHours는 "0600" 같은 시각 문자열을 정수 값으로 정렬합니다.
func SortHours(hours []string) {
	sort.SliceStable(hours, func(i, j int) bool {
		return hourValue(hours[i]) < hourValue(hours[j])
	})
}

func hourValue(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Rainfall은 RN1 값을 "0mm", "1.5mm" 형태로 바꿉니다.
// "1mm 미만"처럼 단위가 이미 붙은 값은 그대로 둡니다.
func Rainfall(value string) string {
	switch {
	case value == NoPrecipitation:
		return "0mm"
	case strings.Contains(value, "mm"):
		return value
	}
	return value + "mm"
}

// Glyph는 하늘상태와 강수형태를 합쳐 현재 날씨 이모지를 고릅니다.
func Glyph(sky, pty string) string {
	for _, r := range glyphRules {
		if r.sky != "" && r.sky != sky {
			continue
		}
		if r.pty != "" && r.pty != pty {
			continue
		}
		return r.glyph
	}
	return defaultGlyph
}

// FormatHour는 "0600"을 "6시"로 바꿉니다.
func FormatHour(fcstTime string) string {
	if len(fcstTime) < 2 {
		return fcstTime
	}
	hour, err := strconv.Atoi(fcstTime[:2])
	if err != nil {
		return fcstTime
	}
	return strconv.Itoa(hour) + "시"
}

// Views는 응답 item 목록을 정렬된 화면용 행으로 만듭니다.
func Views(items []models.ForecastItem) []models.HourlyView {
	grouped := Group(Filter(items))
	hours := SortedHours(grouped)

	views := make([]models.HourlyView, 0, len(hours))
	for _, h := range hours {
		w := grouped[h]
		views = append(views, models.HourlyView{
			Hour:        h,
			Label:       FormatHour(h),
			Temperature: orNA(w[CategoryTemperature]),
			Humidity:    orNA(w[CategoryHumidity]),
			Rainfall:    rainfallOrNA(w[CategoryRainfall]),
			Glyph:       Glyph(w[CategorySky], w[CategoryPrecipType]),
		})
	}
	return views
}

func rainfallOrNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return Rainfall(v)
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}
