package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteCache는 (base_date, base_time, nx, ny) 별 기상청 응답을 저장합니다.
// 한 번 발표된 자료는 바뀌지 않으므로 만료 시간까지 그대로 재사용합니다.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLite는 path의 DB를 열고 테이블을 만듭니다.
func NewSQLite(path string, ttl time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite 열기 실패: %w", err)
	}
	// sqlite는 동시 쓰기를 지원하지 않음
	db.SetMaxOpenConns(1)

	const schema = `
CREATE TABLE IF NOT EXISTS forecasts (
	query_key  TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	expires_at INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("테이블 생성 실패: %w", err)
	}
	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}, nil
}

// Get은 만료되지 않은 응답이 있으면 돌려줍니다.
func (c *SQLiteCache) Get(key string) ([]byte, bool, error) {
	var payload []byte
	var expiresAt int64
	err := c.db.QueryRow(`SELECT payload, expires_at FROM forecasts WHERE query_key = ?`, key).Scan(&payload, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("캐시 조회 실패: %w", err)
	}
	if c.now().UnixNano() >= expiresAt {
		return nil, false, nil
	}
	return payload, true, nil
}

// Put은 응답을 저장하거나 덮어씁니다.
func (c *SQLiteCache) Put(key string, payload []byte) error {
	expiresAt := c.now().Add(c.ttl).UnixNano()
	_, err := c.db.Exec(`INSERT INTO forecasts (query_key, payload, expires_at) VALUES (?, ?, ?)
ON CONFLICT(query_key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		key, payload, expiresAt)
	if err != nil {
		return fmt.Errorf("캐시 저장 실패: %w", err)
	}
	return nil
}

// Prune은 만료된 행을 지우고 지운 개수를 돌려줍니다.
func (c *SQLiteCache) Prune() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM forecasts WHERE expires_at <= ?`, c.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("캐시 정리 실패: %w", err)
	}
	return res.RowsAffected()
}

func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
