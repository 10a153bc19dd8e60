package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadEnvOnce sync.Once

// Config는 .env / 환경 변수에서 읽은 실행 설정입니다.
type Config struct {
	Port          string
	APIKey        string // 기상청 서비스 키 (프록시에서만 사용)
	ProxyEndpoint string // 비어 있으면 자기 자신의 /proxy 사용
	CacheDB       string // 비어 있으면 캐시 비활성화
	CacheTTL      time.Duration
	UpstreamRPS   float64
	UpstreamBurst int
}

// Load는 .env 파일을 한 번만 로드한 뒤 환경 변수로 Config를 만듭니다.
// .env가 없어도 실패하지 않습니다.
func Load() *Config {
	loadEnvOnce.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("경고: .env 파일을 불러오지 못했습니다: %v", err)
		}
	})

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		APIKey:        os.Getenv("API_KEY"),
		ProxyEndpoint: os.Getenv("PROXY_ENDPOINT"),
		CacheDB:       getEnv("CACHE_DB", "forecast_cache.db"),
		CacheTTL:      getDuration("CACHE_TTL", time.Hour),
		UpstreamRPS:   getFloat("UPSTREAM_RPS", 1.0),
		UpstreamBurst: getInt("UPSTREAM_BURST", 5),
	}
	if cfg.ProxyEndpoint == "" {
		cfg.ProxyEndpoint = "http://localhost:" + cfg.Port + "/proxy"
	}
	return cfg
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("경고: %s=%q 해석 실패, 기본값 %v 사용", key, v, def)
		return def
	}
	return d
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("경고: %s=%q 해석 실패, 기본값 %v 사용", key, v, def)
		return def
	}
	return f
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("경고: %s=%q 해석 실패, 기본값 %d 사용", key, v, def)
		return def
	}
	return n
}
