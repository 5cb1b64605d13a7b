package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Topic 标识一类查询结果，失效时按 Topic + ID 批量删除
type Topic int

const (
	TopicPortfolio Topic = iota + 1
	TopicPortfolioSearch
	TopicUserPortfolios
	TopicPortfolioComments
	// TopicUserComments 某用户写过的评论
	TopicUserComments
	// TopicCommentsToUser 写在某用户主页上的留言
	TopicCommentsToUser
	TopicUserProfile
)

var topicNames = map[Topic]string{
	TopicPortfolio:         "portfolio",
	TopicPortfolioSearch:   "portfolio_search",
	TopicUserPortfolios:    "user_portfolios",
	TopicPortfolioComments: "portfolio_comments",
	TopicUserComments:      "user_comments",
	TopicCommentsToUser:    "comments_to_user",
	TopicUserProfile:       "user_profile",
}

func (t Topic) String() string {
	if name, ok := topicNames[t]; ok {
		return name
	}
	return fmt.Sprintf("topic(%d)", int(t))
}

// Key 缓存键。Viewer 区分登录用户（API 返回的 auth/likes 依赖于请求者），
// Variant 区分分页、排序、搜索条件
type Key struct {
	Topic   Topic
	ID      int64
	Viewer  int64
	Variant string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d:v%d:%s", k.Topic, k.ID, k.Viewer, k.Variant)
}

type target struct {
	topic Topic
	id    int64
}

type item struct {
	data      any
	expiresAt time.Time
}

// Invalidator 是 service 层依赖的最小接口
type Invalidator interface {
	Invalidate(topic Topic, id int64)
	InvalidateTopic(topic Topic)
}

// Cache 进程内查询缓存：LRU + TTL，同一个 key 的并发加载只会请求一次上游
type Cache struct {
	lru         *lru.Cache[Key, item]
	group       singleflight.Group
	ttl         time.Duration
	loadTimeout time.Duration

	mu   sync.Mutex
	gens map[target]uint64
	gen  uint64
}

func New(size int, ttl, loadTimeout time.Duration) (*Cache, error) {
	l, err := lru.New[Key, item](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	if loadTimeout <= 0 {
		loadTimeout = 10 * time.Second
	}
	return &Cache{
		lru:         l,
		ttl:         ttl,
		loadTimeout: loadTimeout,
		gens:        make(map[target]uint64),
	}, nil
}

func (c *Cache) get(key Key) (any, bool) {
	val, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	// 检查过期
	if time.Now().After(val.expiresAt) {
		c.lru.Remove(key)
		return nil, false
	}
	return val.data, true
}

func (c *Cache) generation(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[target{key.Topic, key.ID}] + c.gen
}

// Invalidate 删除 topic/id 下所有 viewer 与 variant 的缓存，
// 并让正在进行的旧加载结果不再写回
func (c *Cache) Invalidate(topic Topic, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[target{topic, id}]++
	c.removeLocked(func(k Key) bool { return k.Topic == topic && k.ID == id })
}

// InvalidateTopic 删除整个 topic，用于列表类查询
func (c *Cache) InvalidateTopic(topic Topic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.removeLocked(func(k Key) bool { return k.Topic == topic })
}

// removeLocked 调用方必须持有 c.mu
func (c *Cache) removeLocked(match func(Key) bool) {
	for _, k := range c.lru.Keys() {
		if match(k) {
			c.lru.Remove(k)
		}
	}
}

// storeIfCurrent 代数未变时写入。检查与写入在同一把锁内，
// 与 Invalidate 互斥，失效后不会再写回旧数据
func (c *Cache) storeIfCurrent(key Key, gen uint64, data any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[target{key.Topic, key.ID}]+c.gen != gen {
		return false
	}
	c.lru.Add(key, item{data: data, expiresAt: time.Now().Add(c.ttl)})
	return true
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

// Query 返回缓存数据，未命中时调用 load。
// 调用方 ctx 取消只会结束等待，共享的加载由 loadTimeout 约束
func Query[T any](ctx context.Context, c *Cache, key Key, load func(context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := c.get(key); ok {
		if data, ok := v.(T); ok {
			return data, nil
		}
	}

	gen := c.generation(key)
	flightKey := fmt.Sprintf("%s#%d", key, gen)

	ch := c.group.DoChan(flightKey, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.loadTimeout)
		defer cancel()

		data, err := load(lctx)
		if err != nil {
			return nil, err
		}
		c.storeIfCurrent(key, gen, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		data, ok := res.Val.(T)
		if !ok {
			return zero, fmt.Errorf("cache: %s holds %T", key, res.Val)
		}
		return data, nil
	}
}
