// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/portfolio/pkg/convert"
)

/*
TestToIntD falls back to the default on empty or malformed input.
*/
func TestToIntD(t *testing.T) {
	assert.Equal(t, 12, convert.ToIntD("12", 5))
	assert.Equal(t, 12, convert.ToIntD(" 12 ", 5))
	assert.Equal(t, 5, convert.ToIntD("", 5))
	assert.Equal(t, 5, convert.ToIntD("ten", 5))
}

/*
TestClamp keeps values inside the range.
*/
func TestClamp(t *testing.T) {
	assert.Equal(t, 1, convert.Clamp(-3, 1, 50))
	assert.Equal(t, 50, convert.Clamp(99, 1, 50))
	assert.Equal(t, 20, convert.Clamp(20, 1, 50))
}
