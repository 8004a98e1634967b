package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CanonicalPath returns the absolute, symlink-resolved form of dir. When the
// symlink walk fails (for example the path does not exist) the cleaned absolute
// path is returned.
func CanonicalPath(dir string) (string, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return "", fmt.Errorf("directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return filepath.Clean(abs), nil
}

// RepositoryHandle identifies a working tree. Key is the lock key and Dir is the
// directory git runs in.
type RepositoryHandle struct {
	Dir string
	Key string
}

// ResolveRepository canonicalizes dir and, when it is inside a work tree, keys the
// handle by the work tree root so every subdirectory shares one lock.
func ResolveRepository(dir string) (RepositoryHandle, error) {
	canonical, err := CanonicalPath(dir)
	if err != nil {
		return RepositoryHandle{}, err
	}
	handle := RepositoryHandle{Dir: canonical, Key: canonical}
	if root, err := WorktreeRoot(canonical); err == nil {
		if key, err := CanonicalPath(root); err == nil {
			handle.Key = key
		}
	}
	return handle, nil
}

func openRepo(dir string) (*gogit.Repository, error) {
	return gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
}

// WorktreeRoot returns the root directory of the work tree containing dir
func WorktreeRoot(dir string) (string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	return worktree.Filesystem.Root(), nil
}

// RemoteExists reports whether the repository containing dir has a remote named name
func RemoteExists(dir, name string) (bool, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return false, fmt.Errorf("not a git repository: %w", err)
	}
	if _, err := repo.Remote(name); err != nil {
		if errors.Is(err, gogit.ErrRemoteNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// LocalBranches returns the sorted short names of refs/heads in the repository
// containing dir
func LocalBranches(dir string) ([]string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	iter, err := repo.Branches()
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	sort.Strings(names)
	return names, err
}

// RemoteNames returns the sorted remote names of the repository containing dir
func RemoteNames(dir string) ([]string, error) {
	repo, err := openRepo(dir)
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(remotes))
	for _, r := range remotes {
		names = append(names, r.Config().Name)
	}
	sort.Strings(names)
	return names, nil
}
