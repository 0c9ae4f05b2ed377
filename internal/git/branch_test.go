package git

import (
	"slices"
	"testing"
)

func TestCompareBranches(t *testing.T) {
	t.Parallel()

	branches := []Branch{
		{RefName: "refs/remotes/origin/a", Kind: Remote},
		{RefName: "refs/heads/zeta", Kind: Local},
		{RefName: "refs/heads/main", Kind: Local, Head: true},
		{RefName: "refs/heads/main", Kind: Local},
		{RefName: "refs/heads/alpha", Kind: Local},
	}
	slices.SortStableFunc(branches, CompareBranches)

	want := []struct {
		ref  string
		head bool
	}{
		{"refs/heads/alpha", false},
		{"refs/heads/main", false},
		{"refs/heads/main", true},
		{"refs/heads/zeta", false},
		{"refs/remotes/origin/a", false},
	}
	for i, w := range want {
		if branches[i].RefName != w.ref || branches[i].Head != w.head {
			t.Errorf("position %d = %s (head %v), want %s (head %v)",
				i, branches[i].RefName, branches[i].Head, w.ref, w.head)
		}
	}
}

func TestCompareBranches_LocalBeforeRemote(t *testing.T) {
	t.Parallel()

	// remote ref name sorts lexically before the local one, kind still wins
	local := Branch{RefName: "refs/heads/zzz", Kind: Local}
	remote := Branch{RefName: "refs/abc", Kind: Remote}
	if CompareBranches(local, remote) >= 0 {
		t.Error("local branch should sort before remote branch")
	}
	if CompareBranches(remote, local) <= 0 {
		t.Error("remote branch should sort after local branch")
	}
}

func TestBranch_LocalName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ref  string
		want string
	}{
		{"refs/heads/main", "main"},
		{"refs/heads/feature/x", "feature/x"},
		{"refs/remotes/origin/main", ""},
	}
	for _, tt := range tests {
		if got := (Branch{RefName: tt.ref}).LocalName(); got != tt.want {
			t.Errorf("LocalName(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}

func TestCommit_Subject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		msg  string
		want string
	}{
		{"Fix parser", "Fix parser"},
		{"  Fix parser  \n\nLong body", "Fix parser"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := (Commit{Message: tt.msg}).Subject(); got != tt.want {
			t.Errorf("Subject(%q) = %q, want %q", tt.msg, got, tt.want)
		}
	}
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	for s, want := range map[Status]string{Unique: "unique", Match: "match", Ahead: "ahead", Behind: "behind"} {
		if got := s.String(); got != want {
			t.Errorf("Status(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestParseBranches(t *testing.T) {
	t.Parallel()

	out := []byte("refs/heads/main\x1fmain\x1f*\x1frefs/remotes/origin/main\x1fabc\n" +
		"refs/remotes/origin/main\x1forigin/main\x1f \x1f\x1fabc\n" +
		"refs/tags/v1\x1fv1\x1f \x1f\x1fdef\n")

	branches, err := parseBranches(out)
	if err != nil {
		t.Fatalf("parseBranches() = %v", err)
	}
	if len(branches) != 2 {
		t.Fatalf("parseBranches() returned %d branches, want 2 (tags skipped)", len(branches))
	}
	if !branches[0].Head || branches[0].Kind != Local || branches[0].Upstream != "refs/remotes/origin/main" {
		t.Errorf("branches[0] = %+v", branches[0])
	}
	if branches[1].Head || branches[1].Kind != Remote || branches[1].Object != "abc" {
		t.Errorf("branches[1] = %+v", branches[1])
	}

	if _, err := parseBranches([]byte("refs/heads/main\x1fmain\n")); err == nil {
		t.Error("parseBranches(short line) = nil, want error")
	}
}

func TestParseCommit(t *testing.T) {
	t.Parallel()

	out := []byte("abc123\x1fJane Doe\x1f1704103200\x1f2024-01-01 12:00:00 +0200\x1fSubject\x1fwith sep\n\nbody\n")
	c, err := parseCommit(out)
	if err != nil {
		t.Fatalf("parseCommit() = %v", err)
	}
	if c.ID != "abc123" || c.Author != "Jane Doe" {
		t.Errorf("parseCommit() = %+v", c)
	}
	if c.Message != "Subject\x1fwith sep\n\nbody" {
		t.Errorf("Message = %q", c.Message)
	}
	if got := c.Time.Format("15:04 -0700"); got != "12:00 +0200" {
		t.Errorf("Time in author zone = %s, want 12:00 +0200", got)
	}

	if _, err := parseCommit([]byte("abc\x1fx\x1fnot-a-number\x1f\x1fmsg")); err == nil {
		t.Error("parseCommit(bad time) = nil, want error")
	}
}
