package display

import (
	"sync"
	"time"
)

// Board는 마지막으로 그려진 날씨 결과 한 칸을 보관합니다.
// 요청마다 Begin으로 토큰을 받고, 더 최근 토큰이 이미 게시됐다면 늦게 끝난 결과는 버립니다.
type Board struct {
	mu        sync.RWMutex
	issued    uint64
	published uint64
	content   string
	updatedAt time.Time
}

func NewBoard() *Board {
	return &Board{}
}

// Begin은 새 요청 토큰을 발급합니다. 토큰은 단조 증가합니다.
func (b *Board) Begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued++
	return b.issued
}

// Publish는 token의 결과를 게시합니다. 더 새로운 결과가 이미 있으면 false.
func (b *Board) Publish(token uint64, content string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if token < b.published {
		return false
	}
	b.published = token
	b.content = content
	b.updatedAt = time.Now()
	return true
}

// Latest는 현재 게시된 내용을 돌려줍니다.
func (b *Board) Latest() (content string, updatedAt time.Time, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content, b.updatedAt, b.published > 0
}
