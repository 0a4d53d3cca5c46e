// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package uuid_test

import (
	"testing"

	googleuuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/coursedesk/pkg/uuid"
)

/*
TestNew verifies that generated identifiers are version 7 and distinct.
*/
func TestNew(t *testing.T) {
	seen := make(map[string]struct{}, 1000)

	for range 1000 {
		id := uuid.New()
		parsed, err := googleuuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, googleuuid.Version(7), parsed.Version())

		_, duplicate := seen[id]
		require.False(t, duplicate, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, uuid.IsValid(uuid.New()))
	assert.False(t, uuid.IsValid("chapter-1"))
	assert.False(t, uuid.IsValid(""))
}
