package page

// Block is one piece of page content. The set of blocks is closed; the
// renderer handles every type declared here.
type Block interface {
	block()
}

// Title is the page heading.
type Title struct{ Text string }

// Subheader is a section heading.
type Subheader struct{ Text string }

// Text is a short paragraph; inline markdown is allowed.
type Text struct{ Text string }

// Markdown is a block of markdown (headings, lists, tables).
type Markdown struct{ Source string }

// Divider is a horizontal rule.
type Divider struct{}

// Columns lays out its children side by side, one slice per column.
type Columns struct{ Cols [][]Block }

// Info is a blue callout.
type Info struct{ Text string }

// Success is a green callout.
type Success struct{ Text string }

// Code is a preformatted snippet.
type Code struct {
	Source   string
	Language string
}

// Metric shows a labelled value.
type Metric struct {
	Label string
	Value string
}

// TextInput is a single-line text field submitted with GET.
type TextInput struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
}

// Expander is a collapsible section.
type Expander struct {
	Label    string
	Expanded bool
	Blocks   []Block
}

// Balloons plays the celebration animation once.
type Balloons struct{}

func (Title) block()     {}
func (Subheader) block() {}
func (Text) block()      {}
func (Markdown) block()  {}
func (Divider) block()   {}
func (Columns) block()   {}
func (Info) block()      {}
func (Success) block()   {}
func (Code) block()      {}
func (Metric) block()    {}
func (TextInput) block() {}
func (Expander) block()  {}
func (Balloons) block()  {}
