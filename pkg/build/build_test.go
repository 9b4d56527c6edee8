// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, Version)
}
