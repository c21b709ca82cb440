// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/portfolio/pkg/query"
)

/*
TestStringSlice trims entries and drops empties.
*/
func TestStringSlice(t *testing.T) {
	assert.Nil(t, query.StringSlice(""))
	assert.Equal(t, []string{"1", "2"}, query.StringSlice(" 1 ,, 2 ,"))
}
