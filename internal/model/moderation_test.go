package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReorderPositions(t *testing.T) {
	ids := []int{10, 20, 30, 40, 50}

	// 向后移动：中间的元素依次前移
	assert.Equal(t, []int{20, 30, 40, 10, 50}, ReorderPositions(ids, 10, 4))
	// 向前移动：中间的元素依次后移
	assert.Equal(t, []int{40, 10, 20, 30, 50}, ReorderPositions(ids, 40, 1))
	// 原地不动
	assert.Equal(t, ids, ReorderPositions(ids, 30, 3))
	// 越界时放到末尾
	assert.Equal(t, []int{10, 30, 40, 50, 20}, ReorderPositions(ids, 20, 9))
	// 输入不被修改
	assert.Equal(t, []int{10, 20, 30, 40, 50}, ids)
}

func TestRemovePosition(t *testing.T) {
	assert.Equal(t, []int{10, 30}, RemovePosition([]int{10, 20, 30}, 20))
	assert.Equal(t, []int{10, 20}, RemovePosition([]int{10, 20}, 99))
}
