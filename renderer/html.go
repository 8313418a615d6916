package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/allocation"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown converts GFM tables, which plain CommonMark does not.
var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// AllocationHTML renders an allocation report as an HTML fragment.
func AllocationHTML(r *allocation.Report) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(AllocationMarkdown(r)), &buf); err != nil {
		return "", fmt.Errorf("could not convert report to html: %w", err)
	}
	return buf.String(), nil
}
