package cli

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/mirror-status/pkg/domain/model"
)

func TestPrintReport(t *testing.T) {
	color.NoColor = true

	t.Run("message only", func(t *testing.T) {
		var buf bytes.Buffer
		printReport(&buf, &model.StatusReport{
			Revisions: model.RevisionPair{Official: 100, Mirror: 100},
			Upstream:  "https://github.com/WordPress/wordpress-develop",
		})
		gt.String(t, buf.String()).Equal("This repository is up to date with https://github.com/WordPress/wordpress-develop ✨\n")
	})

	t.Run("with build URL", func(t *testing.T) {
		var buf bytes.Buffer
		printReport(&buf, &model.StatusReport{
			Revisions: model.RevisionPair{Official: 101, Mirror: 100},
			Upstream:  "https://github.com/WordPress/wordpress-develop",
			Health:    model.BuildUnhealthy,
			Build:     &model.Build{ID: 1},
			BuildURL:  "https://travis-ci.org/nylen/wordpress-develop-svn/builds/1",
		})
		gt.String(t, buf.String()).HasPrefix("This repository is behind https://github.com/WordPress/wordpress-develop by 1 revision 😞")
		gt.String(t, buf.String()).HasSuffix("https://travis-ci.org/nylen/wordpress-develop-svn/builds/1\n")
	})
}
