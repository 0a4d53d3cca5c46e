// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/coursedesk/internal/platform/migration"
)

/*
TestToPgx5DSN checks the scheme rewrite required by the pgx/v5 migrate driver.
*/
func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://u:p@db:5432/coursedesk", "pgx5://u:p@db:5432/coursedesk"},
		{"postgresql://u:p@db/coursedesk?sslmode=disable", "pgx5://u:p@db/coursedesk?sslmode=disable"},
		{"pgx5://db/coursedesk", "pgx5://db/coursedesk"},
		{"host=db dbname=coursedesk", "host=db dbname=coursedesk"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, migration.ToPgx5DSN(tt.in))
	}
}
