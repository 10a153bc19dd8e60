package kma

import (
	"math"

	"github.com/mseongj/nowcast/models"
)

// Projection은 기상청 DFS 격자의 LCC 투영 기초 자료입니다.
type Projection struct {
	RE    float64 // 지구 반경(km)
	Grid  float64 // 격자 간격(km)
	SLat1 float64 // 투영 위도1(degree)
	SLat2 float64 // 투영 위도2(degree)
	OLon  float64 // 기준점 경도(degree)
	OLat  float64 // 기준점 위도(degree)
	XO    float64 // 기준점 X좌표(GRID)
	YO    float64 // 기준점 Y좌표(GRID)
}

// DFS는 기상청 동네예보 격자 파라미터입니다.
var DFS = Projection{
	RE:    6371.00877,
	Grid:  5.0,
	SLat1: 30.0,
	SLat2: 60.0,
	OLon:  126.0,
	OLat:  38.0,
	XO:    43,
	YO:    136,
}

// 기상청 격자 범위 (1..149, 1..253)
const (
	maxNX = 149
	maxNY = 253
)

const degrad = math.Pi / 180.0

type lcc struct {
	p    Projection
	re   float64
	olon float64
	sn   float64
	sf   float64
	ro   float64
}

func newLCC(p Projection) lcc {
	re := p.RE / p.Grid
	slat1 := p.SLat1 * degrad
	slat2 := p.SLat2 * degrad
	olat := p.OLat * degrad

	sn := math.Tan(math.Pi*0.25+slat2*0.5) / math.Tan(math.Pi*0.25+slat1*0.5)
	sn = math.Log(math.Cos(slat1)/math.Cos(slat2)) / math.Log(sn)
	sf := math.Tan(math.Pi*0.25 + slat1*0.5)
	sf = math.Pow(sf, sn) * math.Cos(slat1) / sn
	ro := math.Tan(math.Pi*0.25 + olat*0.5)
	ro = re * sf / math.Pow(ro, sn)

	return lcc{p: p, re: re, olon: p.OLon * degrad, sn: sn, sf: sf, ro: ro}
}

func (c lcc) toGrid(lat, lon float64) models.GridCoordinate {
	ra := math.Tan(math.Pi*0.25 + lat*degrad*0.5)
	ra = c.re * c.sf / math.Pow(ra, c.sn)

	theta := lon*degrad - c.olon
	if theta > math.Pi {
		theta -= 2.0 * math.Pi
	}
	if theta < -math.Pi {
		theta += 2.0 * math.Pi
	}
	theta *= c.sn

	return models.GridCoordinate{
		NX: int(math.Floor(ra*math.Sin(theta) + c.p.XO + 0.5)),
		NY: int(math.Floor(c.ro - ra*math.Cos(theta) + c.p.YO + 0.5)),
	}
}

var dfs = newLCC(DFS)

// ToGrid는 위경도(degree)를 기상청 격자 좌표로 바꿉니다.
// 범위 검사는 하지 않습니다. 한반도 밖의 좌표도 계산된 값을 그대로 돌려줍니다.
func ToGrid(lat, lon float64) models.GridCoordinate {
	return dfs.toGrid(lat, lon)
}

// InCoverage는 격자가 기상청 예보 영역 안에 있는지 알려줍니다.
func InCoverage(g models.GridCoordinate) bool {
	return g.NX >= 1 && g.NX <= maxNX && g.NY >= 1 && g.NY <= maxNY
}
