package server

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/techagentng/askx/config"
	errs "github.com/techagentng/askx/errors"
)

// voteLimiters returns the rate limit middleware for the vote routes: a cap
// per client address, then a cap per voter on that address. Either is
// skipped when its limit is zero.
func (s *Server) voteLimiters() []gin.HandlerFunc {
	var limiters []gin.HandlerFunc
	if s.Config.VoteIPRateLimit > 0 {
		if s.IPRateLimitStore == nil {
			s.IPRateLimitStore = s.newRateLimitStore(s.Config.VoteIPRateLimit)
		}
		limiters = append(limiters, ratelimit.RateLimiter(s.IPRateLimitStore, &ratelimit.Options{
			ErrorHandler: errs.ErrorHandler,
			KeyFunc:      clientKeyFunc,
		}))
	}
	if s.Config.VoteRateLimit > 0 {
		if s.RateLimitStore == nil {
			s.RateLimitStore = s.newRateLimitStore(s.Config.VoteRateLimit)
		}
		limiters = append(limiters, ratelimit.RateLimiter(s.RateLimitStore, &ratelimit.Options{
			ErrorHandler: errs.ErrorHandler,
			KeyFunc:      voterKeyFunc,
		}))
	}
	return limiters
}

// withVoteLimits prepends the vote limiters to h.
func (s *Server) withVoteLimits(h gin.HandlerFunc) []gin.HandlerFunc {
	return append(s.voteLimiters(), h)
}

// newRateLimitStore shares counters through redis when an address is
// configured and keeps them in process otherwise.
func (s *Server) newRateLimitStore(limit uint) ratelimit.Store {
	if s.Config.RedisAddr != "" {
		return ratelimit.RedisStore(&ratelimit.RedisOptions{
			RedisClient: s.redisClient(),
			Rate:        s.Config.VoteRateWindow,
			Limit:       limit,
		})
	}
	return ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  s.Config.VoteRateWindow,
		Limit: limit,
	})
}

func (s *Server) redisClient() *redis.Client {
	if s.redis == nil {
		s.redis = newRedisClient(s.Config)
	}
	return s.redis
}

func newRedisClient(c *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
	})
}

func clientKeyFunc(c *gin.Context) string {
	return "client:" + c.ClientIP()
}

// voterKeyFunc keys the limiter on the client address plus the votedById
// of the body, so rotating voter ids does not escape the address cap and one
// voter cannot starve others behind the same address. The body is restored
// for the handler.
func voterKeyFunc(c *gin.Context) string {
	key := "ip:" + c.ClientIP()
	buf, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return key
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))

	var voter struct {
		VotedByID string `json:"votedById"`
	}
	if err := json.Unmarshal(buf, &voter); err != nil || strings.TrimSpace(voter.VotedByID) == "" {
		return key
	}
	return key + "|voter:" + strings.TrimSpace(voter.VotedByID)
}
