package middleware

import (
	"artcase-backend/internal/errors"
	"artcase-backend/internal/util"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterIdleTimeout     = 30 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端 IP 的令牌桶限流
type RateLimiter struct {
	clients map[string]*clientLimiter
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	stop    chan struct{}
}

func NewRateLimiter(rps, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(rps),
		burst:   burst,
		stop:    make(chan struct{}),
	}
	go rl.cleanupClients()
	return rl
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, exists := rl.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = client
	}
	client.lastSeen = time.Now()
	return client.limiter
}

// cleanupClients 定期清理长时间未访问的客户端
func (rl *RateLimiter) cleanupClients() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			removed := 0
			for ip, client := range rl.clients {
				if time.Since(client.lastSeen) > limiterIdleTimeout {
					delete(rl.clients, ip)
					removed++
				}
			}
			rl.mu.Unlock()
			if removed > 0 {
				util.Logger.Debug("限流器清理过期客户端", zap.Int("removed", removed))
			}
		}
	}
}

// Stop 停止后台清理
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.getLimiter(ip).Allow() {
			util.Logger.Warn("请求频率超限", zap.String("ip", ip), zap.String("path", c.FullPath()))
			errors.HandleError(c, errors.New(errors.ErrRateLimited, "Too many requests, please slow down"))
			c.Abort()
			return
		}
		c.Next()
	}
}
