package pages

import "github.com/gcdash/gcdash/pkg/page"

const aboutOverview = `## Overview

This is a production-ready Docker scaffold for a Go web dashboard,
demonstrating multi-page routing and a modern development workflow.

## Features

- 🐹 **Go** - One static binary, no runtime to install
- 🧭 **chi** - Lightweight router for the page and health endpoints
- 🐳 **Multi-stage Docker** - Optimized builds for dev and prod
- 🔥 **Hot-reload** - Automatic browser reload on asset changes in dev mode
- 🔤 **Embedded font** - The font is inlined in every page, no flash of unstyled text
- 📈 **Metrics** - Prometheus counters for renders and cache use
- ✅ **Testing** - go test with table-driven tests
- 📄 **Multi-page routing** - Demonstrated with this About page!

## Technology Stack

| Component | Version | Purpose |
|-----------|---------|---------|
| Go | 1.24 | Programming language |
| chi | v5 | HTTP routing |
| cobra | Latest | Command line |
| goldmark | Latest | Markdown rendering |
| Docker | Latest | Containerization |
| Prometheus | Latest | Metrics |

## Multi-Page Routing

Every page registers itself in the page registry and appears in the sidebar.
The home page always comes first; the others follow in registration order.

### How it works:
- ` + "`pkg/pages/home.go`" + ` → Home page (always first)
- ` + "`pkg/pages/about.go`" + ` → About page (you are here!)
- ` + "`pkg/pages/xyz.go`" + ` → Would create an "Xyz" page once registered
`

const aboutLearnMore = `### Resources
- [Go Documentation](https://go.dev/doc/)
- [chi Router](https://github.com/go-chi/chi)
- [cobra](https://github.com/spf13/cobra)
- [Docker Documentation](https://docs.docker.com/)

### Author
Glenn Cueto

### License
MIT
`

// About builds the about page. It does not read its input.
func About(Input) *page.Page {
	return &page.Page{
		Config: page.Config{
			Title:  "About - GC Dashboard",
			Icon:   "ℹ️",
			Layout: page.LayoutWide,
		},
		Blocks: []page.Block{
			page.Title{Text: "ℹ️ About GC Dashboard"},
			page.Markdown{Source: aboutOverview},
			page.Divider{},
			page.Columns{Cols: [][]page.Block{
				{page.Metric{Label: "Go Version", Value: "1.24"}},
				{page.Metric{Label: "Docker", Value: "Multi-stage"}},
				{page.Metric{Label: "Hot Reload", Value: "Enabled"}},
			}},
			page.Divider{},
			page.Expander{
				Label:  "📚 Learn More",
				Blocks: []page.Block{page.Markdown{Source: aboutLearnMore}},
			},
		},
	}
}
