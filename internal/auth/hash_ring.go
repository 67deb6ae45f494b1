package auth

import (
	"hash/crc32"
	"sort"
	"strconv"
	"sync"
)

// HashRing 一致性哈希环，用于把令牌缓存键分摊到多个鉴权节点
type HashRing struct {
	hash     func(data []byte) uint32
	replicas int
	keys     []int // 已排序的虚拟节点哈希
	nodes    map[int]string
	known    map[string]struct{}
	mu       sync.RWMutex
}

// NewHashRing 创建哈希环，nodes 为空时落一个默认节点避免空环
func NewHashRing(nodes []string, replicas int) *HashRing {
	if replicas <= 0 {
		replicas = 50
	}
	if len(nodes) == 0 {
		nodes = []string{"auth-node-default"}
	}
	r := &HashRing{
		hash:  crc32.ChecksumIEEE,
		nodes: make(map[int]string),
		known: make(map[string]struct{}),
	}
	r.replicas = replicas
	r.Add(nodes...)
	return r
}

// Add 批量添加节点，重复节点忽略
func (r *HashRing) Add(nodes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, node := range nodes {
		if _, exists := r.known[node]; exists {
			continue
		}
		r.known[node] = struct{}{}
		for i := 0; i < r.replicas; i++ {
			h := int(r.hash([]byte(node + "#" + strconv.Itoa(i))))
			r.keys = append(r.keys, h)
			r.nodes[h] = node
		}
	}
	sort.Ints(r.keys)
}

// Node 返回 key 顺时针方向最近的节点
func (r *HashRing) Node(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.keys) == 0 {
		return ""
	}
	h := int(r.hash([]byte(key)))
	idx := sort.Search(len(r.keys), func(i int) bool { return r.keys[i] >= h })
	if idx == len(r.keys) {
		idx = 0
	}
	return r.nodes[r.keys[idx]]
}
