package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mseongj/nowcast/config"
	"github.com/mseongj/nowcast/display"
	"github.com/mseongj/nowcast/forecast"
	"github.com/mseongj/nowcast/handlers"
	"github.com/mseongj/nowcast/kma"
	"github.com/mseongj/nowcast/routes"
	"github.com/mseongj/nowcast/store"
)

// CORS 미들웨어
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, hx-request, hx-trigger, hx-current-url, hx-target")

		// OPTIONS 요청 (Preflight) 바로 응답
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()

	var cache forecast.Cache
	if cfg.CacheDB != "" {
		sqliteCache, err := store.NewSQLite(cfg.CacheDB, cfg.CacheTTL)
		if err != nil {
			log.Fatalf("캐시 DB 초기화 실패: %v", err)
		}
		defer sqliteCache.Close()
		cache = sqliteCache
		go pruneLoop(sqliteCache, cfg.CacheTTL)
	}

	// API_KEY가 없으면 /proxy 없이 외부 프록시만 사용
	var upstream handlers.Upstream
	if cfg.APIKey != "" {
		upstream = kma.NewUpstream(kma.UltraSrtFcstURL, cfg.APIKey, cfg.UpstreamRPS, cfg.UpstreamBurst)
	} else {
		log.Println("경고: API_KEY가 없어 /proxy를 사용할 수 없습니다")
	}

	h := handlers.New(forecast.NewClient(cfg.ProxyEndpoint, cache), upstream, display.NewBoard())
	router := routes.SetupRoutes(h, "./public/")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           enableCORS(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server is running on http://localhost:%s (proxy: %s)", cfg.Port, cfg.ProxyEndpoint)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe 실패: %v", err)
		}
	}()

	<-stop
	log.Println("종료 신호 수신, 서버를 닫습니다...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server.Shutdown 오류: %v", err)
	}
}

// pruneLoop는 만료된 캐시 행을 주기적으로 지웁니다.
func pruneLoop(c *store.SQLiteCache, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for range ticker.C {
		n, err := c.Prune()
		if err != nil {
			log.Printf("캐시 정리 실패: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("만료된 캐시 %d건 삭제", n)
		}
	}
}
