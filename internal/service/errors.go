package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an entity does not exist; handlers map it to
// 404 instead of leaking repository errors.
var ErrNotFound = errors.New("資料不存在")

// LimitError signals that a daily AI-call ceiling was hit. The call is
// refused before any external request is made; handlers map it to 429.
type LimitError struct {
	Kind  string // "image" | "text"
	Limit int
}

func (e *LimitError) Error() string {
	if e.Kind == "image" {
		return fmt.Sprintf("今日 AI 讀圖已達上限（%d 次/人/日）。請明日再試或請管理者調整上限。", e.Limit)
	}
	return fmt.Sprintf("今日 AI 文字處理已達上限（%d 次/人/日）。請明日再試或請管理者調整上限。", e.Limit)
}

// AIError wraps transport or parse failures from the external model; handlers
// map it to 502. The operation it occurred in is aborted with no retry and no
// partial commit.
type AIError struct{ Err error }

func (e *AIError) Error() string { return "AI 處理失敗：" + e.Err.Error() }
func (e *AIError) Unwrap() error { return e.Err }
