package pages

import (
	"fmt"

	"github.com/gcdash/gcdash/pkg/page"
)

// NameField is the form field the home page greets.
const NameField = "name"

// Home builds the landing page. A non-empty name greets the visitor and
// releases the balloons.
func Home(in Input) *page.Page {
	p := &page.Page{
		Config: page.Config{
			Title:        "GC Dashboard",
			Icon:         "🚀",
			Layout:       page.LayoutWide,
			SidebarState: page.SidebarExpanded,
		},
		Blocks: []page.Block{
			page.Title{Text: "🚀 GC Dashboard"},
			page.Text{Text: "This is a multi-page Go dashboard running in Docker."},
			page.Divider{},
			page.Columns{Cols: [][]page.Block{
				{
					page.Subheader{Text: "Quick Info"},
					page.Info{Text: "Built with Go, chi and server-rendered HTML"},
					page.Code{Source: "docker run -p 8501:8501 gc-dashboard", Language: "bash"},
				},
				{
					page.Subheader{Text: "Getting Started"},
					page.Success{Text: "Edit pkg/pages/home.go to customize this page"},
					page.Text{Text: "Changes will hot-reload automatically in dev mode!"},
				},
			}},
			page.Divider{},
			page.Subheader{Text: "📑 Multiple Pages"},
			page.Text{Text: "Check out the **About** page in the sidebar to learn more about this application!"},
		},
	}

	name := in.Get(NameField)
	p.Blocks = append(p.Blocks, page.TextInput{
		Name:        NameField,
		Label:       "What's your name?",
		Placeholder: "Enter your name",
		Value:       name,
	})
	if name != "" {
		p.Blocks = append(p.Blocks,
			page.Balloons{},
			page.Text{Text: fmt.Sprintf("Hello, %s! 👋", name)},
		)
	}
	return p
}
