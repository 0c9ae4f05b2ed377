package picker

import (
	"context"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/raphi011/shelf/internal/format"
	"github.com/raphi011/shelf/internal/scan"
	"github.com/raphi011/shelf/internal/target"
)

// Candidate is one selectable item. The set of implementations is closed:
// *TargetItem and *ProjectItem.
type Candidate interface {
	// Label is the colored line shown in the list.
	Label() string
	// Text is Label without escape sequences; fuzzy matching runs on it.
	Text() string
	// Preview renders the side pane for the item.
	Preview(ctx context.Context) (string, error)

	candidate()
}

// GraphLogger renders commit history for the preview pane.
// *git.Repo satisfies it.
type GraphLogger interface {
	GraphLog(ctx context.Context, id string, limit int) (string, error)
}

// previewLines bounds the graph log shown next to a target.
const previewLines = 200

// TargetItem is a branch tip offered by jump.
type TargetItem struct {
	Target target.Target

	label   string
	text    string
	log     GraphLogger
	details bool
}

// NewTargetItem renders the label of t once. When details is set the
// preview shows the target fields instead of the graph log of repo.
func NewTargetItem(t target.Target, repo GraphLogger, details bool, now time.Time) *TargetItem {
	label := format.TargetLine(t, now)
	return &TargetItem{
		Target:  t,
		label:   label,
		text:    ansi.Strip(label),
		log:     repo,
		details: details,
	}
}

func (i *TargetItem) Label() string { return i.label }
func (i *TargetItem) Text() string  { return i.text }

func (i *TargetItem) Preview(ctx context.Context) (string, error) {
	if i.details || i.log == nil {
		return format.TargetDetail(i.Target), nil
	}
	return i.log.GraphLog(ctx, i.Target.Commit.ID, previewLines)
}

func (*TargetItem) candidate() {}

// ProjectItem is a project directory.
type ProjectItem struct {
	Project scan.Project

	label string
	text  string
}

func NewProjectItem(p scan.Project) *ProjectItem {
	label := format.ProjectLine(p)
	return &ProjectItem{Project: p, label: label, text: ansi.Strip(label)}
}

func (i *ProjectItem) Label() string { return i.label }
func (i *ProjectItem) Text() string  { return i.text }

func (i *ProjectItem) Preview(context.Context) (string, error) {
	return format.ProjectDetail(i.Project), nil
}

func (*ProjectItem) candidate() {}
