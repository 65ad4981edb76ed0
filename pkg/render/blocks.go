package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gcdash/gcdash/pkg/errors"
	"github.com/gcdash/gcdash/pkg/page"
)

// balloonCount is the number of balloons in one celebration.
const balloonCount = 12

// blocks renders a block list to HTML. It is also registered as the
// "blocks" template function for columns and expanders.
func (r *Renderer) blocks(blocks []page.Block) (template.HTML, error) {
	var buf bytes.Buffer
	for _, b := range blocks {
		name, data, err := r.blockView(b)
		if err != nil {
			return "", err
		}
		if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "render %s block", name)
		}
	}
	return template.HTML(buf.String()), nil
}

// blockView picks the template for b and builds its data.
func (r *Renderer) blockView(b page.Block) (string, any, error) {
	switch v := b.(type) {
	case page.Title:
		return "title", v, nil
	case page.Subheader:
		return "subheader", v, nil
	case page.Divider:
		return "divider", v, nil
	case page.Text:
		html, err := r.markdown(v.Text)
		return "text", html, err
	case page.Markdown:
		html, err := r.markdown(v.Source)
		return "markdown", html, err
	case page.Info:
		html, err := r.markdown(v.Text)
		return "callout", calloutView{Kind: "info", Body: html}, err
	case page.Success:
		html, err := r.markdown(v.Text)
		return "callout", calloutView{Kind: "success", Body: html}, err
	case page.Code:
		return "code", v, nil
	case page.Metric:
		return "metric", v, nil
	case page.TextInput:
		return "input", v, nil
	case page.Columns:
		cols := make([]template.HTML, len(v.Cols))
		for i, col := range v.Cols {
			html, err := r.blocks(col)
			if err != nil {
				return "", nil, err
			}
			cols[i] = html
		}
		return "columns", cols, nil
	case page.Expander:
		return "expander", v, nil
	case page.Balloons:
		return "balloons", balloons(), nil
	default:
		return "", nil, errors.New(errors.ErrCodeUnsupported, "unsupported block %T", b)
	}
}

type calloutView struct {
	Kind string
	Body template.HTML
}

type balloonView struct {
	Left  int
	Delay string
	Hue   int
}

// balloons spreads the balloons across the viewport with staggered starts.
func balloons() []balloonView {
	out := make([]balloonView, balloonCount)
	for i := range out {
		out[i] = balloonView{
			Left:  5 + i*90/balloonCount,
			Delay: fmt.Sprintf("%.2fs", float64(i%4)*0.35+float64(i)*0.05),
			Hue:   i * 360 / balloonCount,
		}
	}
	return out
}

func (r *Renderer) markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "convert markdown")
	}
	return template.HTML(buf.String()), nil
}
