package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// configureTestRepo sets git user config and disables GPG signing.
func configureTestRepo(t *testing.T, repoPath string) {
	t.Helper()
	ctx := context.Background()
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
	} {
		if err := runGit(ctx, repoPath, args...); err != nil {
			t.Fatalf("failed to run git %v: %v", args, err)
		}
	}
}

// commitFile writes name and commits it with the given author date.
// Returns the new commit id.
func commitFile(t *testing.T, repoPath, name, msg, date string) string {
	t.Helper()
	ctx := context.Background()
	if err := os.WriteFile(filepath.Join(repoPath, name), []byte(msg+"\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := runGit(ctx, repoPath, "add", name); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}
	if err := runGit(ctx, repoPath, "commit", "-m", msg, "--date", date); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return revParse(t, repoPath, "HEAD")
}

func revParse(t *testing.T, repoPath, rev string) string {
	t.Helper()
	out, err := outputGit(context.Background(), repoPath, "rev-parse", rev)
	if err != nil {
		t.Fatalf("rev-parse %s: %v", rev, err)
	}
	return strings.TrimSpace(string(out))
}

// setupTestRepo creates a git repo with main branch, initial commit, and git config.
// Returns the resolved repo path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	tmpDir := resolveTempDir(t)
	repoPath := filepath.Join(tmpDir, "test-repo")

	if err := runGit(context.Background(), "", "init", "-b", "main", repoPath); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	configureTestRepo(t, repoPath)
	commitFile(t, repoPath, "README.md", "Initial commit", "2024-01-01T12:00:00+02:00")
	return repoPath
}

// setupTestRepoWithOrigin creates a repo with a bare origin remote whose
// HEAD points at main. Returns (repoPath, originPath).
func setupTestRepoWithOrigin(t *testing.T) (string, string) {
	t.Helper()
	tmpDir := resolveTempDir(t)

	originPath := filepath.Join(tmpDir, "origin.git")
	repoPath := filepath.Join(tmpDir, "repo")

	ctx := context.Background()

	// -b main ensures consistent default branch across git versions
	if err := runGit(ctx, "", "init", "--bare", "-b", "main", originPath); err != nil {
		t.Fatalf("failed to init bare repo: %v", err)
	}
	if err := runGit(ctx, "", "clone", "--quiet", originPath, repoPath); err != nil {
		t.Fatalf("failed to clone: %v", err)
	}
	configureTestRepo(t, repoPath)

	commitFile(t, repoPath, "README.md", "Initial commit", "2024-01-01T12:00:00+02:00")
	if err := runGit(ctx, repoPath, "push", "--quiet", "-u", "origin", "HEAD"); err != nil {
		t.Fatalf("failed to push: %v", err)
	}
	if err := runGit(ctx, repoPath, "remote", "set-head", "origin", "main"); err != nil {
		t.Fatalf("failed to set origin HEAD: %v", err)
	}

	return repoPath, originPath
}

func findBranch(branches []Branch, refName string) (Branch, bool) {
	for _, b := range branches {
		if b.RefName == refName {
			return b, true
		}
	}
	return Branch{}, false
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	sub := filepath.Join(repoPath, "nested", "dir")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	r, err := Discover(context.Background(), sub)
	if err != nil {
		t.Fatalf("Discover() = %v", err)
	}
	if r.Path != repoPath {
		t.Errorf("Path = %q, want %q", r.Path, repoPath)
	}
	if r.GitDir != filepath.Join(repoPath, ".git") {
		t.Errorf("GitDir = %q, want %q", r.GitDir, filepath.Join(repoPath, ".git"))
	}
}

func TestDiscover_NotARepo(t *testing.T) {
	t.Parallel()

	if _, err := Discover(context.Background(), resolveTempDir(t)); err == nil {
		t.Error("Discover() outside a repository = nil, want error")
	}
}

func TestListBranches(t *testing.T) {
	t.Parallel()

	repoPath, _ := setupTestRepoWithOrigin(t)
	ctx := context.Background()
	if err := runGit(ctx, repoPath, "branch", "feature"); err != nil {
		t.Fatal(err)
	}

	branches, err := Open(repoPath).ListBranches(ctx)
	if err != nil {
		t.Fatalf("ListBranches() = %v", err)
	}

	main, ok := findBranch(branches, "refs/heads/main")
	if !ok {
		t.Fatalf("refs/heads/main missing from %v", branches)
	}
	if main.Name != "main" || main.Kind != Local || !main.Head {
		t.Errorf("main = %+v, want local head named main", main)
	}
	if main.Upstream != "refs/remotes/origin/main" {
		t.Errorf("main.Upstream = %q, want refs/remotes/origin/main", main.Upstream)
	}

	feature, ok := findBranch(branches, "refs/heads/feature")
	if !ok {
		t.Fatal("refs/heads/feature missing")
	}
	if feature.Head || feature.Upstream != "" {
		t.Errorf("feature = %+v, want non-head without upstream", feature)
	}

	remote, ok := findBranch(branches, "refs/remotes/origin/main")
	if !ok {
		t.Fatal("refs/remotes/origin/main missing")
	}
	if remote.Kind != Remote || remote.Name != "origin/main" {
		t.Errorf("origin/main = %+v, want remote named origin/main", remote)
	}
	if remote.Object != main.Object {
		t.Errorf("origin/main object %s != main object %s", remote.Object, main.Object)
	}
}

func TestResolveBranchTip(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()
	r := Open(repoPath)

	branches, err := r.ListBranches(ctx)
	if err != nil {
		t.Fatal(err)
	}
	main, ok := findBranch(branches, "refs/heads/main")
	if !ok {
		t.Fatal("refs/heads/main missing")
	}

	c, err := r.ResolveBranchTip(ctx, main)
	if err != nil {
		t.Fatalf("ResolveBranchTip() = %v", err)
	}
	if c.ID != revParse(t, repoPath, "main") {
		t.Errorf("ID = %s, want tip of main", c.ID)
	}
	if c.Author != "Test User" {
		t.Errorf("Author = %q, want Test User", c.Author)
	}
	if c.Subject() != "Initial commit" {
		t.Errorf("Subject() = %q, want Initial commit", c.Subject())
	}
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !c.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", c.Time, want)
	}
	if _, offset := c.Time.Zone(); offset != 2*60*60 {
		t.Errorf("zone offset = %d, want author offset +0200", offset)
	}

	// cached by object id: a second lookup succeeds even if the ref is gone
	if err := runGit(ctx, repoPath, "checkout", "--quiet", "--detach"); err != nil {
		t.Fatal(err)
	}
	if err := runGit(ctx, repoPath, "branch", "-D", "main"); err != nil {
		t.Fatal(err)
	}
	again, err := r.ResolveBranchTip(ctx, main)
	if err != nil {
		t.Fatalf("cached ResolveBranchTip() = %v", err)
	}
	if again.ID != c.ID {
		t.Errorf("cached ID = %s, want %s", again.ID, c.ID)
	}
}

func TestResolveBranchTip_NotACommit(t *testing.T) {
	t.Parallel()

	r := Open(setupTestRepo(t))
	_, err := r.ResolveBranchTip(context.Background(), Branch{RefName: "refs/heads/missing"})
	if !errors.Is(err, ErrNotACommit) {
		t.Errorf("ResolveBranchTip(missing) = %v, want ErrNotACommit", err)
	}
}

func TestMergeBase(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	ctx := context.Background()
	r := Open(repoPath)
	base := revParse(t, repoPath, "main")

	if err := runGit(ctx, repoPath, "checkout", "--quiet", "-b", "feature"); err != nil {
		t.Fatal(err)
	}
	tip := commitFile(t, repoPath, "feature.txt", "Add feature", "2024-02-01T12:00:00Z")

	got, err := r.MergeBase(ctx, base, tip)
	if err != nil {
		t.Fatalf("MergeBase() = %v", err)
	}
	if got != base {
		t.Errorf("MergeBase() = %s, want %s", got, base)
	}

	if err := runGit(ctx, repoPath, "checkout", "--quiet", "--orphan", "unrelated"); err != nil {
		t.Fatal(err)
	}
	orphan := commitFile(t, repoPath, "other.txt", "Unrelated root", "2024-03-01T12:00:00Z")

	_, err = r.MergeBase(ctx, base, orphan)
	if !errors.Is(err, ErrNoCommonAncestor) {
		t.Errorf("MergeBase(unrelated) = %v, want ErrNoCommonAncestor", err)
	}
}

func TestResolvePrimary(t *testing.T) {
	t.Parallel()

	t.Run("absent without origin", func(t *testing.T) {
		t.Parallel()
		c, err := Open(setupTestRepo(t)).ResolvePrimary(context.Background())
		if err != nil {
			t.Fatalf("ResolvePrimary() = %v, want nil error", err)
		}
		if c != nil {
			t.Errorf("ResolvePrimary() = %+v, want nil", c)
		}
	})

	t.Run("origin HEAD", func(t *testing.T) {
		t.Parallel()
		repoPath, _ := setupTestRepoWithOrigin(t)
		c, err := Open(repoPath).ResolvePrimary(context.Background())
		if err != nil {
			t.Fatalf("ResolvePrimary() = %v", err)
		}
		if c == nil {
			t.Fatal("ResolvePrimary() = nil, want origin/main tip")
		}
		if c.ID != revParse(t, repoPath, "origin/main") {
			t.Errorf("ResolvePrimary().ID = %s, want origin/main", c.ID)
		}
	})
}

func TestUserName(t *testing.T) {
	t.Parallel()

	if got := Open(setupTestRepo(t)).UserName(context.Background()); got != "Test User" {
		t.Errorf("UserName() = %q, want Test User", got)
	}
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	repoPath, _ := setupTestRepoWithOrigin(t)
	ctx := context.Background()
	r := Open(repoPath)
	first := revParse(t, repoPath, "main")

	if err := runGit(ctx, repoPath, "branch", "feature"); err != nil {
		t.Fatal(err)
	}
	second := commitFile(t, repoPath, "two.txt", "Second", "2024-02-01T12:00:00Z")

	currentBranch := func() string {
		out, err := outputGit(ctx, repoPath, "branch", "--show-current")
		if err != nil {
			t.Fatal(err)
		}
		return strings.TrimSpace(string(out))
	}

	t.Run("local branch", func(t *testing.T) {
		if err := r.CheckoutBranch(ctx, Branch{Name: "feature", RefName: "refs/heads/feature", Kind: Local}); err != nil {
			t.Fatalf("CheckoutBranch() = %v", err)
		}
		if got := currentBranch(); got != "feature" {
			t.Errorf("current branch = %q, want feature", got)
		}
	})

	t.Run("remote branch detaches", func(t *testing.T) {
		if err := r.CheckoutBranch(ctx, Branch{Name: "origin/main", RefName: "refs/remotes/origin/main", Kind: Remote}); err != nil {
			t.Fatalf("CheckoutBranch() = %v", err)
		}
		if got := currentBranch(); got != "" {
			t.Errorf("current branch = %q, want detached", got)
		}
		if got := revParse(t, repoPath, "HEAD"); got != first {
			t.Errorf("HEAD = %s, want %s", got, first)
		}
	})

	t.Run("commit", func(t *testing.T) {
		if err := r.CheckoutCommit(ctx, second); err != nil {
			t.Fatalf("CheckoutCommit() = %v", err)
		}
		if got := revParse(t, repoPath, "HEAD"); got != second {
			t.Errorf("HEAD = %s, want %s", got, second)
		}
	})
}

func TestGraphLog(t *testing.T) {
	t.Parallel()

	repoPath := setupTestRepo(t)
	out, err := Open(repoPath).GraphLog(context.Background(), "main", 10)
	if err != nil {
		t.Fatalf("GraphLog() = %v", err)
	}
	if !strings.Contains(out, "Initial commit") {
		t.Errorf("GraphLog() = %q, want it to mention the commit subject", out)
	}
	if !strings.Contains(out, "Test User") {
		t.Errorf("GraphLog() = %q, want it to mention the author", out)
	}
}
