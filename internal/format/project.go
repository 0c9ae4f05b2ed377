package format

import (
	"fmt"
	"strings"

	"github.com/raphi011/shelf/internal/scan"
	"github.com/raphi011/shelf/internal/ui/styles"
)

// ProjectLine renders p as "[type] title".
func ProjectLine(p scan.Project) string {
	return styles.Fg(styles.Current().Muted).Render("["+p.Type+"]") + " " + p.Title
}

// ProjectDetail renders p for the preview pane.
func ProjectDetail(p scan.Project) string {
	label := styles.Fg(styles.Current().Muted)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", label.Render("path "), p.Path)
	fmt.Fprintf(&sb, "%s %s\n", label.Render("type "), p.Type)
	fmt.Fprintf(&sb, "%s %s\n", label.Render("title"), p.Title)
	return sb.String()
}
