package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/heartmarshall/health-registry/internal/domain"
)

func prefix(k domain.CounterKey) string {
	return "tenant:" + k.TenantID + ":user:" + k.UserID + ":device:" + k.DeviceID
}

// DailyKey is the counter of ids dispatched on day (formatted YYYY-MM-DD).
func DailyKey(k domain.CounterKey, day string) string { return prefix(k) + ":count:" + day }

// TotalKey is the lifetime counter.
func TotalKey(k domain.CounterKey) string { return prefix(k) + ":total:count" }

// Limits configures quotas and counter expiry.
type Limits struct {
	Total         int64
	PerDay        int64
	PerDayEnabled bool
	PerDayTTL     time.Duration
	TotalTTL      time.Duration
	Location      *time.Location
}

// Counters tracks dispatched ids per tenant, user and device.
type Counters struct {
	eval   Evaler
	limits Limits
	now    func() time.Time
}

// NewCounters creates counters backed by eval.
func NewCounters(eval Evaler, limits Limits) *Counters {
	if limits.Location == nil {
		limits.Location = time.UTC
	}
	return &Counters{eval: eval, limits: limits, now: time.Now}
}

// Limits returns the configured quotas.
func (c *Counters) Limits() Limits { return c.limits }

func (c *Counters) today() string {
	return c.now().In(c.limits.Location).Format(time.DateOnly)
}

// readScript returns {daily, total}; missing keys read as 0.
const readScript = `
local daily = redis.call('GET', KEYS[1])
local total = redis.call('GET', KEYS[2])
if not daily then daily = 0 end
if not total then total = 0 end
return {tonumber(daily), tonumber(total)}
`

// updateScript updates both counters and refreshes both expiries in one step.
// ARGV: delta, increment (1/0), isToday (1/0), daily ttl seconds, total ttl seconds.
// It returns the new total.
const updateScript = `
local delta = tonumber(ARGV[1])
local increment = ARGV[2] == '1'
local isToday = ARGV[3] == '1'
if increment then
  if isToday then
    redis.call('INCRBY', KEYS[1], delta)
  end
  redis.call('INCRBY', KEYS[2], delta)
elseif isToday then
  local prev = redis.call('GET', KEYS[1])
  if not prev then prev = 0 end
  redis.call('SET', KEYS[1], delta)
  redis.call('INCRBY', KEYS[2], delta - tonumber(prev))
else
  redis.call('SET', KEYS[2], delta)
end
if redis.call('EXISTS', KEYS[1]) == 1 then
  redis.call('EXPIRE', KEYS[1], tonumber(ARGV[4]))
end
redis.call('EXPIRE', KEYS[2], tonumber(ARGV[5]))
return tonumber(redis.call('GET', KEYS[2]))
`

// Counts reads the daily and total counters.
func (c *Counters) Counts(ctx context.Context, key domain.CounterKey) (daily, total int64, err error) {
	res, err := c.eval.Eval(ctx, readScript, []string{DailyKey(key, c.today()), TotalKey(key)})
	if err != nil {
		return 0, 0, fmt.Errorf("redis: read counters: %w", err)
	}
	vals, ok := res.([]any)
	if !ok || len(vals) != 2 {
		return 0, 0, fmt.Errorf("redis: read counters: unexpected reply %T", res)
	}
	if daily, err = toInt64(vals[0]); err != nil {
		return 0, 0, err
	}
	if total, err = toInt64(vals[1]); err != nil {
		return 0, 0, err
	}
	return daily, total, nil
}

// GetRemaining returns how many ids the user/device may still take. The
// total quota is always applied; the daily one only when enabled and
// allowToday is set, in which case the smaller remainder wins. With validate
// it fails with USER_DEVICE_LIMIT_EXCEEDED when count does not fit.
func (c *Counters) GetRemaining(ctx context.Context, key domain.CounterKey, count int64, validate, allowToday bool) (int64, error) {
	if validate && count <= 0 {
		return 0, domain.NewCustomError(domain.CodeInvalidDispatchCnt, "Dispatch count must be greater than 0.")
	}
	daily, total, err := c.Counts(ctx, key)
	if err != nil {
		return 0, err
	}

	remaining := c.limits.Total - total
	if validate && (remaining <= 0 || count > remaining) {
		return 0, domain.NewCustomError(domain.CodeLimitExceeded, fmt.Sprintf(
			"Total limit for user: %s and device: %s exceeded. Remaining ids: %d. Please try again later.",
			key.UserID, key.DeviceID, remaining))
	}

	if c.limits.PerDayEnabled && allowToday {
		dailyRemaining := c.limits.PerDay - daily
		if validate && (dailyRemaining <= 0 || count > dailyRemaining) {
			return 0, domain.NewCustomError(domain.CodeLimitExceeded, fmt.Sprintf(
				"Daily limit for user: %s and device: %s exceeded. Remaining ids: %d. Please try again later.",
				key.UserID, key.DeviceID, dailyRemaining))
		}
		remaining = min(remaining, dailyRemaining)
	}
	return remaining, nil
}

// UpdateCount adds delta to the counters (increment) or reconciles them to
// the authoritative value delta. Reconciling today's counter moves the total
// by the difference only.
func (c *Counters) UpdateCount(ctx context.Context, key domain.CounterKey, delta int64, increment, isToday bool) (int64, error) {
	keys := []string{DailyKey(key, c.today()), TotalKey(key)}
	args := []any{delta, flag(increment), flag(isToday), seconds(c.limits.PerDayTTL), seconds(c.limits.TotalTTL)}

	res, err := c.eval.Eval(ctx, updateScript, keys, args...)
	if err != nil {
		return 0, fmt.Errorf("redis: update counters: %w", err)
	}
	return toInt64(res)
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func seconds(d time.Duration) int64 {
	if s := int64(d / time.Second); s > 0 {
		return s
	}
	return 1
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	case nil:
		return 0, nil
	}
	return 0, fmt.Errorf("redis: unexpected counter value %T", v)
}
