// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/portfolio/internal/platform/sec"
)

/*
TestDisplayName covers the global-name preference and the legacy discriminator fallback.
*/
func TestDisplayName(t *testing.T) {
	tests := []struct {
		name          string
		globalName    string
		username      string
		discriminator string
		want          string
	}{
		{"global_name_wins", "Nagi", "nagi_dev", "1234", "Nagi"},
		{"legacy_composite", "", "nagi_dev", "1234", "nagi_dev#1234"},
		{"migrated_zero_discriminator", "", "nagi_dev", "0", "nagi_dev"},
		{"no_discriminator", "", "nagi_dev", "", "nagi_dev"},
		{"blank_global_name", "   ", "nagi_dev", "0", "nagi_dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.DisplayName(tt.globalName, tt.username, tt.discriminator))
		})
	}
}

/*
TestAllowlist verifies trimming, empty entries and the nil receiver.
*/
func TestAllowlist(t *testing.T) {
	list := sec.NewAllowlist([]string{" 1 ", "", "2", "  "})

	assert.Equal(t, 2, list.Len())
	assert.True(t, list.Contains("1"))
	assert.True(t, list.Contains("2"))
	assert.False(t, list.Contains(""))
	assert.False(t, list.Contains("3"))

	var empty *sec.Allowlist
	assert.False(t, empty.Contains("1"))
	assert.Equal(t, 0, empty.Len())
}
