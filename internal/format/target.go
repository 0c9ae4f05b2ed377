package format

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/raphi011/shelf/internal/git"
	"github.com/raphi011/shelf/internal/target"
	"github.com/raphi011/shelf/internal/ui/styles"
)

// IsRemoteOf reports whether remote is exactly refs/remotes/<name>/L for the
// local ref refs/heads/L.
func IsRemoteOf(local, remote string) bool {
	l, ok := strings.CutPrefix(local, "refs/heads/")
	if !ok || l == "" {
		return false
	}
	r, ok := strings.CutPrefix(remote, "refs/remotes/")
	if !ok {
		return false
	}
	name, ok := strings.CutSuffix(r, "/"+l)
	return ok && name != ""
}

// VisibleBranches returns the branches of t that are rendered, in order.
// A branch is hidden when it is the remote counterpart of any earlier
// visible branch.
func VisibleBranches(branches []git.Branch) []git.Branch {
	var shown []git.Branch
next:
	for _, b := range branches {
		for _, s := range shown {
			if IsRemoteOf(s.RefName, b.RefName) {
				continue next
			}
		}
		shown = append(shown, b)
	}
	return shown
}

// branchStyle picks the highlight color unless t is merged but not the primary tip.
func branchStyle(t target.Target) lipgloss.Style {
	theme := styles.Current()
	if t.IsPrimary || !t.IsMerged {
		return styles.Fg(theme.Highlight)
	}
	return styles.Fg(theme.Merged)
}

// TargetLine renders t as a single picker line.
func TargetLine(t target.Target, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(RelativeTime(t.Commit.Time, now))

	if len(t.Branches) > 0 {
		style := branchStyle(t)
		sym := styles.CurrentSymbols()

		sb.WriteByte(' ')
		sb.WriteString(style.Render(sym.Branch + "("))
		for i, b := range VisibleBranches(t.Branches) {
			if i > 0 {
				sb.WriteString(", ")
			}
			if b.Head {
				sb.WriteString(style.Bold(true).Render(sym.Head))
			}
			sb.WriteString(style.Render(b.Name))
		}
		sb.WriteString(style.Render(")"))
	}

	sb.WriteByte(' ')
	sb.WriteString(t.Commit.Subject())
	sb.WriteByte(' ')
	sb.WriteString(styles.Fg(styles.Current().Author).Render("[" + t.Commit.Author + "]"))
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// TargetDetail renders every field of t for the preview pane.
func TargetDetail(t target.Target) string {
	theme := styles.Current()
	label := styles.Fg(theme.Muted)
	c := t.Commit

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", label.Render("commit "), c.ID)
	fmt.Fprintf(&sb, "%s %s\n", label.Render("author "), c.Author)
	fmt.Fprintf(&sb, "%s %s\n", label.Render("date   "), c.Time.Format("Mon Jan 2 15:04:05 2006 -0700"))
	fmt.Fprintf(&sb, "%s %s\n", label.Render("merged "), yesNo(t.IsMerged))
	fmt.Fprintf(&sb, "%s %s\n", label.Render("primary"), yesNo(t.IsPrimary))
	if head, ok := t.Head(); ok {
		fmt.Fprintf(&sb, "%s %s\n", label.Render("head   "), head.Name)
	}
	if t.RepoPath != "" {
		fmt.Fprintf(&sb, "%s %s\n", label.Render("repo   "), t.RepoPath)
	}

	sb.WriteString("\n")
	sb.WriteString(styles.Fg(theme.Primary).Bold(true).Render("branches"))
	sb.WriteString("\n")
	for _, b := range t.Branches {
		head := " "
		if b.Head {
			head = styles.CurrentSymbols().Head
		}
		fmt.Fprintf(&sb, "  %s %s (%s", head, b.Name, b.Kind)
		if b.Upstream != "" {
			fmt.Fprintf(&sb, ", upstream %s %s", b.Upstream, b.Status)
		}
		sb.WriteString(")\n")
	}

	sb.WriteString("\n")
	sb.WriteString(c.Message)
	sb.WriteString("\n")
	return sb.String()
}
