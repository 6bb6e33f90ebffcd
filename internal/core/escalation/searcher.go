package escalation

import (
	"context"
	"fmt"
	"time"
)

// SimulatedSearcher は一定時間待機して成功を返す外部採用の代替実装です。
type SimulatedSearcher struct {
	Delay time.Duration
}

// Search は Delay だけ待機します。待機中に ctx が終了した場合はその理由を返します。
func (s SimulatedSearcher) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &SearchResult{
		Summary: fmt.Sprintf("external search for %s completed", req.ProjectName),
	}, nil
}
