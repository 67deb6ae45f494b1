package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashRing_StableMapping(t *testing.T) {
	ring := NewHashRing([]string{"node-a", "node-b", "node-c"}, 50)

	// 同一个 key 永远落在同一个节点
	first := ring.Node("token-abc")
	require.NotEmpty(t, first)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ring.Node("token-abc"))
	}
}

func TestHashRing_EmptyNodesFallback(t *testing.T) {
	ring := NewHashRing(nil, 0)
	assert.Equal(t, "auth-node-default", ring.Node("anything"))
}

func TestHashRing_AddIsIdempotent(t *testing.T) {
	ring := NewHashRing([]string{"node-a"}, 10)
	before := ring.Node("key-1")

	// 重复添加不改变已有映射
	ring.Add("node-a")
	assert.Equal(t, before, ring.Node("key-1"))
}

func TestHashRing_Distribution(t *testing.T) {
	ring := NewHashRing([]string{"node-a", "node-b", "node-c"}, 100)

	seen := map[string]int{}
	for i := 0; i < 300; i++ {
		seen[ring.Node("token-"+string(rune('a'+i%26))+string(rune('0'+i%10)))]++
	}
	// 每个节点都应该分到 key
	assert.Len(t, seen, 3)
}
