package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-geo/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyShippingRules caches a branch's rule list: shipping_rules:{branch_id} -> JSON array
const KeyShippingRules = "shipping_rules:%s"

// CachedShippingRuleRepository is a read-through Redis cache in front of the
// rule store. Cache failures are logged and the store is queried directly.
type CachedShippingRuleRepository struct {
	next   ShippingRuleRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedShippingRuleRepository wraps next with a Redis cache using ttl per branch entry
func NewCachedShippingRuleRepository(next ShippingRuleRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedShippingRuleRepository {
	return &CachedShippingRuleRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func shippingRulesKey(branchID uuid.UUID) string {
	return fmt.Sprintf(KeyShippingRules, branchID)
}

// Create stores the rule and drops the branch's cached list
func (c *CachedShippingRuleRepository) Create(ctx context.Context, rule *domain.ShippingRule, position int) error {
	if err := c.next.Create(ctx, rule, position); err != nil {
		return err
	}

	if err := c.rdb.Del(ctx, shippingRulesKey(rule.BranchID)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate shipping rule cache",
			zap.String("branch_id", rule.BranchID.String()),
			zap.Error(err),
		)
	}
	return nil
}

// ListByBranch returns the cached rule list of a branch
func (c *CachedShippingRuleRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]domain.ShippingRule, error) {
	byBranch, err := c.ListByBranches(ctx, []uuid.UUID{branchID})
	if err != nil {
		return nil, err
	}

	rules := byBranch[branchID]
	if rules == nil {
		rules = []domain.ShippingRule{}
	}
	return rules, nil
}

// ListByBranches serves what it can from Redis and loads the rest from the store
func (c *CachedShippingRuleRepository) ListByBranches(ctx context.Context, branchIDs []uuid.UUID) (map[uuid.UUID][]domain.ShippingRule, error) {
	byBranch := make(map[uuid.UUID][]domain.ShippingRule, len(branchIDs))
	if len(branchIDs) == 0 {
		return byBranch, nil
	}

	misses := c.readCached(ctx, branchIDs, byBranch)
	if len(misses) == 0 {
		return byBranch, nil
	}

	loaded, err := c.next.ListByBranches(ctx, misses)
	if err != nil {
		return nil, err
	}

	pipe := c.rdb.Pipeline()
	for _, id := range misses {
		rules := loaded[id]
		if rules == nil {
			rules = []domain.ShippingRule{}
		}
		byBranch[id] = rules

		payload, err := json.Marshal(rules)
		if err != nil {
			continue
		}
		pipe.Set(ctx, shippingRulesKey(id), payload, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("Failed to populate shipping rule cache", zap.Error(err))
	}

	return byBranch, nil
}

// readCached fills byBranch from Redis and returns the branch IDs that missed
func (c *CachedShippingRuleRepository) readCached(ctx context.Context, branchIDs []uuid.UUID, byBranch map[uuid.UUID][]domain.ShippingRule) []uuid.UUID {
	keys := make([]string, len(branchIDs))
	for i, id := range branchIDs {
		keys[i] = shippingRulesKey(id)
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.logger.Warn("Shipping rule cache unavailable", zap.Error(err))
		return branchIDs
	}

	var misses []uuid.UUID
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			misses = append(misses, branchIDs[i])
			continue
		}

		var rules []domain.ShippingRule
		if err := json.Unmarshal([]byte(raw), &rules); err != nil {
			c.logger.Warn("Discarding corrupt shipping rule cache entry",
				zap.String("branch_id", branchIDs[i].String()),
				zap.Error(err),
			)
			misses = append(misses, branchIDs[i])
			continue
		}
		byBranch[branchIDs[i]] = rules
	}

	return misses
}
