package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dcastano/cobranza-engine/internal/domain"
	"github.com/dcastano/cobranza-engine/internal/repository"
	"github.com/dcastano/cobranza-engine/pkg/utils"
)

// DedupGuard decides whether a digest was already sent to a recipient in the
// current window. The outbound log is the source of truth; redis is only a
// fast path and may be absent.
type DedupGuard struct {
	OutboundRepo repository.OutboundRepository
	redis        *redis.Client
	logger       *logrus.Logger
}

func NewDedupGuard(outboundRepo repository.OutboundRepository, redisClient *redis.Client, logger *logrus.Logger) *DedupGuard {
	return &DedupGuard{
		OutboundRepo: outboundRepo,
		redis:        redisClient,
		logger:       logger,
	}
}

// DedupWindow returns the [from, to) interval that suppresses duplicate sends
// for a digest type at the given instant. DAILY covers the local calendar
// day; WEEKLY covers the ISO week starting Monday. An entry sent exactly at
// the window start counts as inside.
func DedupWindow(digestType string, asOf time.Time) (from, to time.Time) {
	if digestType == domain.DigestTypeWeekly {
		from = utils.StartOfISOWeek(asOf)
		return from, from.AddDate(0, 0, 7)
	}
	from = utils.StartOfDay(asOf)
	return from, from.AddDate(0, 0, 1)
}

// HasSentInWindow reports whether a SENT log entry exists for the recipient
// in the current window. The check is read-then-decide: two overlapping runs
// can both pass before either logs, and that small duplicate-send window is
// accepted.
func (g *DedupGuard) HasSentInWindow(ctx context.Context, workspaceID uuid.UUID, recipient, digestType, direction string, asOf time.Time) (bool, error) {
	from, to := DedupWindow(digestType, asOf)
	key := g.cacheKey(workspaceID, recipient, digestType, direction, from)

	if g.redis != nil {
		n, err := g.redis.Exists(ctx, key).Result()
		if err == nil && n > 0 {
			return true, nil
		}
		if err != nil {
			// Cache trouble falls through to the log query.
			g.logger.WithError(err).Warn("dedup cache lookup failed")
		}
	}

	sent, err := g.OutboundRepo.ExistsSentInWindow(ctx, workspaceID, recipient, digestType, direction, from, to)
	if err != nil {
		return false, err
	}

	if sent && g.redis != nil {
		g.cacheMark(ctx, key, to, asOf)
	}

	return sent, nil
}

// MarkSent primes the cache after a successful send. The caller has already
// appended the SENT log entry; this only narrows the race window for
// subsequent checks.
func (g *DedupGuard) MarkSent(ctx context.Context, workspaceID uuid.UUID, recipient, digestType, direction string, asOf time.Time) {
	if g.redis == nil {
		return
	}
	from, to := DedupWindow(digestType, asOf)
	g.cacheMark(ctx, g.cacheKey(workspaceID, recipient, digestType, direction, from), to, asOf)
}

func (g *DedupGuard) cacheKey(workspaceID uuid.UUID, recipient, digestType, direction string, windowStart time.Time) string {
	return fmt.Sprintf("digest:sent:%s:%s:%s:%s:%s",
		workspaceID, recipient, digestType, direction, utils.DayKey(windowStart))
}

func (g *DedupGuard) cacheMark(ctx context.Context, key string, windowEnd, asOf time.Time) {
	ttl := windowEnd.Sub(asOf)
	if ttl <= 0 {
		return
	}
	if err := g.redis.Set(ctx, key, "1", ttl).Err(); err != nil {
		g.logger.WithError(err).Warn("dedup cache write failed")
	}
}
