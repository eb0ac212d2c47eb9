package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/gitinfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitInfo_IsGitRepo_True(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	assert.True(t, gitinfo.New().IsGitRepo(dir))
}

func TestGitInfo_IsGitRepo_False(t *testing.T) {
	assert.False(t, gitinfo.New().IsGitRepo(t.TempDir()))
}

func TestGitInfo_CommitHash_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	want := commitFile(t, dir, "invoices/batch.csv", "Invoice Amount (₹)\n100000\n")

	hash, err := gitinfo.New().CommitHash(filepath.Join(dir, "invoices"))
	require.NoError(t, err)
	assert.Equal(t, want, hash)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")
}

func TestGitInfo_CommitHash_NoCommits(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = gitinfo.New().CommitHash(dir)
	assert.Error(t, err)
}

func TestGitInfo_CommitHash_NotGitRepo(t *testing.T) {
	_, err := gitinfo.New().CommitHash(t.TempDir())
	assert.Error(t, err)
}

func commitFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)

	hash, err := wt.Commit("add invoices", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}
