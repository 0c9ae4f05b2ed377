// Package format renders candidates as single-line picker labels and as
// multi-line detail views.
//
// # Target lines
//
//	<time> <icon>(<branches>) <subject> [<author>]
//
// Branches are colored with the theme's Highlight color unless the commit is
// merged into the primary reference without being its tip, in which case the
// Merged color is used. The checked-out branch carries a bold "*". A
// remote-tracking branch is omitted when it is exactly the counterpart
// refs/remotes/<remote>/<name> of a local branch already shown.
//
// # Time
//
// [RelativeTime] prints seconds, minutes or hours ago for recent commits,
// a weekday for the last six days and an absolute date otherwise. It is a
// display rule only; ordering always uses the raw commit time.
//
// # Project lines
//
//	[<type>] <title>
package format
