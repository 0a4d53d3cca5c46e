// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/coursedesk/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, slice.Map([]int{1, 2}, strconv.Itoa))
}

func TestReduce(t *testing.T) {
	sum := slice.Reduce([]float64{10, 20.5}, 0.0, func(total float64, amount float64) float64 {
		return total + amount
	})
	assert.InDelta(t, 30.5, sum, 1e-9)
	assert.Equal(t, 7, slice.Reduce([]int(nil), 7, func(a, b int) int { return a + b }))
}
