package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/mseongj/nowcast/models"
)

var (
	// ErrNoData는 응답에 response/body/items 가 없을 때입니다.
	ErrNoData = errors.New("날씨 정보가 없습니다")
	// ErrUpstreamStatus는 프록시가 200이 아닌 상태를 돌려줬을 때입니다.
	ErrUpstreamStatus = errors.New("날씨 정보를 가져오는 데 실패했습니다")
)

// Cache는 조회 결과 원문을 보관합니다. store.SQLiteCache가 구현합니다.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, payload []byte) error
}

// 요청 처리 시간을 측정하기 위한 구조체
type RequestMetrics struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Client는 프록시 엔드포인트에서 초단기예보를 가져옵니다.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cache      Cache
}

// NewClient는 endpoint를 호출하는 Client를 만듭니다. cache는 nil이어도 됩니다.
func NewClient(endpoint string, cache Cache) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
	}
}

// Fetch는 q에 해당하는 예보 item 목록을 돌려줍니다.
func (c *Client) Fetch(ctx context.Context, q models.ForecastQuery) ([]models.ForecastItem, error) {
	metrics := RequestMetrics{StartTime: time.Now()}

	body, cached := c.fromCache(q)
	if !cached {
		var err error
		if body, err = c.get(ctx, q); err != nil {
			return nil, err
		}
	}

	var resp models.ForecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Printf("JSON 파싱 실패. 응답 내용: %s", string(body))
		return nil, fmt.Errorf("%w: JSON 파싱 실패: %v", ErrNoData, err)
	}
	items, ok := resp.Items()
	if !ok {
		return nil, ErrNoData
	}

	if !cached && c.cache != nil {
		if err := c.cache.Put(q.Key(), body); err != nil {
			log.Printf("캐시 저장 실패: %v", err)
		}
	}

	metrics.EndTime = time.Now()
	metrics.Duration = metrics.EndTime.Sub(metrics.StartTime)
	log.Printf("날씨 데이터 요청 처리 시간: %v (캐시=%t, %s)", metrics.Duration, cached, q.Key())

	return items, nil
}

func (c *Client) fromCache(q models.ForecastQuery) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(q.Key())
	if err != nil {
		log.Printf("캐시 조회 실패: %v", err)
		return nil, false
	}
	return body, ok
}

func (c *Client) get(ctx context.Context, q models.ForecastQuery) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Values().Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("요청 생성 실패: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP 요청 실패: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: 상태 코드 %d", ErrUpstreamStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("응답 본문 읽기 실패: %w", err)
	}
	return body, nil
}
