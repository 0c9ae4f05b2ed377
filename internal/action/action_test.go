package action

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/raphi011/shelf/internal/git"
	"github.com/raphi011/shelf/internal/history"
	"github.com/raphi011/shelf/internal/log"
	"github.com/raphi011/shelf/internal/output"
	"github.com/raphi011/shelf/internal/picker"
	"github.com/raphi011/shelf/internal/scan"
	"github.com/raphi011/shelf/internal/target"
)

type fakeRepo struct {
	calls []string
	err   error
}

func (f *fakeRepo) CheckoutBranch(_ context.Context, b git.Branch) error {
	f.calls = append(f.calls, "branch "+b.RefName)
	return f.err
}

func (f *fakeRepo) CheckoutCommit(_ context.Context, id string) error {
	f.calls = append(f.calls, "commit "+id)
	return f.err
}

type fakeWindow struct {
	names []string
	err   error
}

func (f *fakeWindow) RenameWindow(_ context.Context, name string) error {
	f.names = append(f.names, name)
	return f.err
}

func testContext(stdout *bytes.Buffer) context.Context {
	ctx := log.WithLogger(context.Background(), log.Nop())
	return output.WithPrinter(ctx, stdout)
}

var foo = scan.Project{Path: "/src/foo", Type: "Local", Title: "foo"}

func TestProject_PrintsPath(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	if err := Project(testContext(&stdout), foo, ProjectOptions{}); err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if got := stdout.String(); got != "/src/foo\n" {
		t.Errorf("stdout = %q, want %q", got, "/src/foo\n")
	}
}

func TestProject_Effects(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	var copied []string
	window := &fakeWindow{}
	file := filepath.Join(t.TempDir(), "history.json")

	err := Project(testContext(&stdout), foo, ProjectOptions{
		Copy:        true,
		Window:      window,
		HistoryFile: file,
		CopyFunc: func(s string) error {
			copied = append(copied, s)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if !slices.Equal(copied, []string{"/src/foo"}) {
		t.Errorf("copied = %v", copied)
	}
	if !slices.Equal(window.names, []string{"foo"}) {
		t.Errorf("window renamed to %v, want [foo]", window.names)
	}
	h, err := history.Load(file)
	if err != nil || h.FindByPath("/src/foo") == nil {
		t.Errorf("history = %+v, %v, want /src/foo recorded", h, err)
	}
}

func TestProject_EffectFailuresAreNotFatal(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	err := Project(testContext(&stdout), foo, ProjectOptions{
		Copy:     true,
		Window:   &fakeWindow{err: errors.New("not inside tmux")},
		CopyFunc: func(string) error { return errors.New("no clipboard") },
	})
	if err != nil {
		t.Errorf("Project() error = %v, want nil", err)
	}
	if stdout.String() != "/src/foo\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		branches []git.Branch
		want     string
	}{
		{
			"first branch",
			[]git.Branch{
				{Name: "main", RefName: "refs/heads/main", Kind: git.Local},
				{Name: "origin/main", RefName: "refs/remotes/origin/main", Kind: git.Remote},
			},
			"branch refs/heads/main",
		},
		{"bare commit", nil, "commit c1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &fakeRepo{}
			tg := target.Target{Commit: git.Commit{ID: "c1"}, Branches: tt.branches}
			if err := Target(testContext(&bytes.Buffer{}), repo, tg); err != nil {
				t.Fatalf("Target() error = %v", err)
			}
			if !slices.Equal(repo.calls, []string{tt.want}) {
				t.Errorf("calls = %v, want [%s]", repo.calls, tt.want)
			}
		})
	}
}

func TestTarget_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("dirty work tree")
	tg := target.Target{Commit: git.Commit{ID: "c1"}}
	if err := Target(testContext(&bytes.Buffer{}), &fakeRepo{err: boom}, tg); !errors.Is(err, boom) {
		t.Errorf("Target() error = %v, want %v", err, boom)
	}
}

func TestDispatch(t *testing.T) {
	t.Parallel()

	t.Run("no selection", func(t *testing.T) {
		t.Parallel()
		var stdout bytes.Buffer
		repo := &fakeRepo{}
		if err := Dispatch(testContext(&stdout), nil, repo, ProjectOptions{}); err != nil {
			t.Errorf("Dispatch(nil) error = %v", err)
		}
		if stdout.Len() != 0 || len(repo.calls) != 0 {
			t.Errorf("Dispatch(nil) had side effects: %q, %v", stdout.String(), repo.calls)
		}
	})

	t.Run("project", func(t *testing.T) {
		t.Parallel()
		var stdout bytes.Buffer
		if err := Dispatch(testContext(&stdout), picker.NewProjectItem(foo), nil, ProjectOptions{}); err != nil {
			t.Fatal(err)
		}
		if stdout.String() != "/src/foo\n" {
			t.Errorf("stdout = %q", stdout.String())
		}
	})

	t.Run("target", func(t *testing.T) {
		t.Parallel()
		repo := &fakeRepo{}
		tg := target.Target{Commit: git.Commit{ID: "c2"}}
		item := picker.NewTargetItem(tg, nil, false, tg.Commit.Time)
		if err := Dispatch(testContext(&bytes.Buffer{}), item, repo, ProjectOptions{}); err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(repo.calls, []string{"commit c2"}) {
			t.Errorf("calls = %v", repo.calls)
		}
	})
}
