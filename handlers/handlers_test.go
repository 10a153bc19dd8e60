package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mseongj/nowcast/display"
	"github.com/mseongj/nowcast/forecast"
	"github.com/mseongj/nowcast/kma"
	"github.com/mseongj/nowcast/models"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeFetcher struct {
	items []models.ForecastItem
	err   error
	got   models.ForecastQuery
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, q models.ForecastQuery) ([]models.ForecastItem, error) {
	f.got = q
	f.calls++
	return f.items, f.err
}

type fakeUpstream struct {
	body   []byte
	status int
	err    error
	got    models.ForecastQuery
}

func (f *fakeUpstream) Fetch(_ context.Context, q models.ForecastQuery) ([]byte, int, error) {
	f.got = q
	return f.body, f.status, f.err
}

func newTestHandlers(f Fetcher, u Upstream) *Handlers {
	h := New(f, u, display.NewBoard())
	h.now = func() time.Time { return time.Date(2024, time.March, 15, 14, 10, 0, 0, kma.KST) }
	return h
}

func get(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetWeather(t *testing.T) {
	Convey("GET /weather", t, func() {
		f := &fakeFetcher{items: []models.ForecastItem{
			{Category: "T1H", FcstTime: "1500", FcstValue: "13"},
			{Category: "RN1", FcstTime: "1500", FcstValue: "강수없음"},
			{Category: "SKY", FcstTime: "1500", FcstValue: "4"},
			{Category: "T1H", FcstTime: "1400", FcstValue: "12"},
			{Category: "REH", FcstTime: "1400", FcstValue: "40"},
		}}
		h := newTestHandlers(f, nil)

		Convey("위경도로 발표 시각과 격자를 계산해 조회한다", func() {
			rec := get(h.GetWeather, "/weather?lat=37.5665&lon=126.9780")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(f.got, ShouldResemble, models.ForecastQuery{BaseDate: "20240315", BaseTime: "1330", NX: 60, NY: 127})

			body := rec.Body.String()
			So(body, ShouldContainSubstring, "14시")
			So(body, ShouldContainSubstring, "기온: 12°C")
			So(body, ShouldContainSubstring, "습도: 40%")
			So(body, ShouldContainSubstring, "강수량: 0mm")
			So(body, ShouldContainSubstring, "🌫️")
			So(strings.Index(body, "14시"), ShouldBeLessThan, strings.Index(body, "15시"))
		})

		Convey("결과는 Board에 게시된다", func() {
			rec := get(h.GetWeather, "/weather?lat=37.5665&lon=126.9780")
			latest := get(h.GetLatest, "/weather/latest")
			So(latest.Body.String(), ShouldEqual, rec.Body.String())
		})

		Convey("위치 오류 콜백은 사용 불가 메시지를 보여준다", func() {
			rec := get(h.GetWeather, "/weather?error=PERMISSION_DENIED")
			So(rec.Body.String(), ShouldContainSubstring, msgUnavailable)
			So(f.calls, ShouldEqual, 0)
		})

		Convey("좌표가 없거나 숫자가 아니면 사용 불가 메시지", func() {
			So(get(h.GetWeather, "/weather").Body.String(), ShouldContainSubstring, msgUnavailable)
			So(get(h.GetWeather, "/weather?lat=abc&lon=127").Body.String(), ShouldContainSubstring, msgUnavailable)
			So(get(h.GetWeather, "/weather?lat=NaN&lon=127").Body.String(), ShouldContainSubstring, msgUnavailable)
			So(f.calls, ShouldEqual, 0)
		})

		Convey("데이터 없음과 호출 실패는 다른 메시지", func() {
			f.err = fmt.Errorf("wrap: %w", forecast.ErrNoData)
			So(get(h.GetWeather, "/weather?lat=37.5&lon=127").Body.String(), ShouldContainSubstring, msgNoData)

			f.err = fmt.Errorf("%w: 상태 코드 500", forecast.ErrUpstreamStatus)
			So(get(h.GetWeather, "/weather?lat=37.5&lon=127").Body.String(), ShouldContainSubstring, msgFetchFailed)

			f.err = errors.New("connection refused")
			So(get(h.GetWeather, "/weather?lat=37.5&lon=127").Body.String(), ShouldContainSubstring, msgFetchFailed)
		})

		Convey("표시할 카테고리가 없으면 데이터 없음", func() {
			f.items = []models.ForecastItem{{Category: "LGT", FcstTime: "1400", FcstValue: "0"}}
			So(get(h.GetWeather, "/weather?lat=37.5&lon=127").Body.String(), ShouldContainSubstring, msgNoData)
		})
	})

	Convey("아직 조회 전이면 latest는 안내 메시지", t, func() {
		h := newTestHandlers(&fakeFetcher{}, nil)
		So(get(h.GetLatest, "/weather/latest").Body.String(), ShouldContainSubstring, msgNotYet)
	})
}

func TestGetGridAndBaseTime(t *testing.T) {
	Convey("GET /grid", t, func() {
		h := newTestHandlers(&fakeFetcher{}, nil)

		rec := get(h.GetGrid, "/grid?lat=38&lon=126")
		So(rec.Code, ShouldEqual, http.StatusOK)
		var g models.GridCoordinate
		So(json.Unmarshal(rec.Body.Bytes(), &g), ShouldBeNil)
		So(g, ShouldResemble, models.GridCoordinate{NX: 43, NY: 136})

		So(get(h.GetGrid, "/grid?lat=38").Code, ShouldEqual, http.StatusBadRequest)
	})

	Convey("GET /basetime", t, func() {
		h := newTestHandlers(&fakeFetcher{}, nil)
		rec := get(h.GetBaseTime, "/basetime")
		var out map[string]string
		So(json.Unmarshal(rec.Body.Bytes(), &out), ShouldBeNil)
		So(out, ShouldResemble, map[string]string{"base_date": "20240315", "base_time": "1330"})
	})
}

func TestProxy(t *testing.T) {
	Convey("GET /proxy", t, func() {
		u := &fakeUpstream{body: []byte(`{"response":{}}`), status: http.StatusOK}
		h := newTestHandlers(&fakeFetcher{}, u)

		Convey("파라미터를 검사해 그대로 중계한다", func() {
			rec := get(h.Proxy, "/proxy?base_date=20240315&base_time=1330&nx=60&ny=127")
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldEqual, `{"response":{}}`)
			So(u.got, ShouldResemble, models.ForecastQuery{BaseDate: "20240315", BaseTime: "1330", NX: 60, NY: 127})
		})

		Convey("기상청 상태 코드를 그대로 전달한다", func() {
			u.status = http.StatusInternalServerError
			rec := get(h.Proxy, "/proxy?base_date=20240315&base_time=1330&nx=60&ny=127")
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
		})

		Convey("파라미터가 빠지면 400", func() {
			So(get(h.Proxy, "/proxy?base_time=1330&nx=60&ny=127").Code, ShouldEqual, http.StatusBadRequest)
			So(get(h.Proxy, "/proxy?base_date=20240315&base_time=130&nx=60&ny=127").Code, ShouldEqual, http.StatusBadRequest)
			So(get(h.Proxy, "/proxy?base_date=20240315&base_time=1330&ny=127").Code, ShouldEqual, http.StatusBadRequest)
			So(get(h.Proxy, "/proxy?base_date=20240315&base_time=1330&nx=60").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("호출 실패는 502", func() {
			u.err = errors.New("timeout")
			So(get(h.Proxy, "/proxy?base_date=20240315&base_time=1330&nx=60&ny=127").Code, ShouldEqual, http.StatusBadGateway)
		})
	})

	Convey("API 키가 없으면 503", t, func() {
		h := newTestHandlers(&fakeFetcher{}, nil)
		So(get(h.Proxy, "/proxy?base_date=20240315&base_time=1330&nx=60&ny=127").Code, ShouldEqual, http.StatusServiceUnavailable)
	})
}
