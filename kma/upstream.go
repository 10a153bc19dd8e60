package kma

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mseongj/nowcast/models"
	"golang.org/x/time/rate"
)

// UltraSrtFcstURL은 기상청 초단기예보 조회 엔드포인트입니다.
const UltraSrtFcstURL = "http://apis.data.go.kr/1360000/VilageFcstInfoService_2.0/getUltraSrtFcst"

// 초단기예보는 6시간 x 10개 카테고리 = 60개
const numOfRows = 60

// Upstream은 서비스 키를 붙여 기상청 API를 직접 호출합니다 (프록시 역할).
type Upstream struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewUpstream은 초당 rps, 최대 burst 만큼만 호출하는 Upstream을 만듭니다.
func NewUpstream(baseURL, serviceKey string, rps float64, burst int) *Upstream {
	if baseURL == "" {
		baseURL = UltraSrtFcstURL
	}
	return &Upstream{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Fetch는 기상청 응답 본문과 상태 코드를 그대로 돌려줍니다.
func (u *Upstream) Fetch(ctx context.Context, q models.ForecastQuery) ([]byte, int, error) {
	if err := u.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit 대기 취소: %w", err)
	}

	params := q.Values()
	params.Set("pageNo", "1")
	params.Set("numOfRows", fmt.Sprintf("%d", numOfRows))
	params.Set("dataType", "JSON")

	// 공공데이터포털 키는 이미 인코딩된 값으로 발급되므로 그대로 붙입니다.
	apiURL := u.baseURL + "?serviceKey=" + u.serviceKey + "&" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("요청 생성 실패: %w", err)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP 요청 실패: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("응답 본문 읽기 실패: %w", err)
	}
	return body, resp.StatusCode, nil
}
