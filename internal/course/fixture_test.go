// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package course_test

import (
	"io"
	"log/slog"

	"github.com/taibuivan/coursedesk/internal/course"
	"github.com/taibuivan/coursedesk/internal/course/coursetest"
)

type fixture struct {
	repository *coursetest.Repository
	images     *coursetest.ImageHost
	granter    *coursetest.RoleGranter
	cache      *coursetest.Cache
	service    *course.Service
}

func newFixture() *fixture {
	f := &fixture{
		repository: coursetest.NewRepository(),
		images:     &coursetest.ImageHost{},
		granter:    &coursetest.RoleGranter{},
		cache:      coursetest.NewCache(),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = course.NewService(f.repository, f.cache, f.images, f.granter, logger)
	return f
}
