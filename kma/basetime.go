package kma

import (
	"fmt"
	"time"

	"github.com/mseongj/nowcast/models"
)

// 초단기예보는 매시 30분 기준으로 발표되고 45분 이후에 조회 가능합니다.
const (
	publishMinute = 45
	slotMinute    = "30"
)

// BaseDateTime은 now 기준으로 조회 가능한 가장 최근 발표 시각을 계산합니다.
// 45분 전이면 한 시간 전 발표분을 쓰고, 0시라면 전날 23시로 넘어갑니다.
func BaseDateTime(now time.Time) (baseDate, baseTime string) {
	slot := now
	if now.Minute() < publishMinute {
		slot = now.Add(-time.Hour)
	}
	return slot.Format("20060102"), fmt.Sprintf("%02d%s", slot.Hour(), slotMinute)
}

// NewQuery는 발표 시각과 격자 좌표로 요청을 만듭니다.
func NewQuery(now time.Time, grid models.GridCoordinate) models.ForecastQuery {
	baseDate, baseTime := BaseDateTime(now)
	return models.ForecastQuery{
		BaseDate: baseDate,
		BaseTime: baseTime,
		NX:       grid.NX,
		NY:       grid.NY,
	}
}

// KST는 기상청 발표 시각 기준 시간대입니다.
var KST = time.FixedZone("KST", 9*60*60)
