// Package git provides read-only repository queries via the git CLI.
//
// All operations call the git binary directly rather than using a Go git
// library. This keeps user configuration (aliases, credential helpers,
// safe.directory) in effect and lets the repository handle be a plain path.
//
// # Queries
//
//   - [Discover]: locate the work tree containing a directory
//   - [Repo.ListBranches]: enumerate local and remote-tracking branches
//   - [Repo.ResolveBranchTip]: peel a branch to its tip commit
//   - [Repo.MergeBase]: best common ancestor of two commits
//   - [Repo.ResolvePrimary]: tip of refs/remotes/origin/HEAD, if any
//
// # Side effects
//
// [Repo.CheckoutBranch] and [Repo.CheckoutCommit] are the only operations
// that modify the repository. They are invoked after a selection is made.
package git
