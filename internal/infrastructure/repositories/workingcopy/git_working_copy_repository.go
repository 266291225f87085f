package workingcopy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
	"github.com/rios0rios0/arbupdate/internal/domain/repositories"
)

const (
	remoteName     = "origin"
	tokenUsername  = "x-access-token"
	committerName  = "arbitrum-dep-updater[bot]"
	committerEmail = "arbitrum-dep-updater[bot]@users.noreply.github.com"
	providerGitHub = "github"
)

// GitWorkingCopyRepository implements repositories.WorkingCopyRepository with go-git.
type GitWorkingCopyRepository struct {
	log logger.FieldLogger
}

// NewGitWorkingCopyRepository creates a new GitWorkingCopyRepository.
func NewGitWorkingCopyRepository(log logger.FieldLogger) repositories.WorkingCopyRepository {
	return &GitWorkingCopyRepository{log: log}
}

// Checkout fetches branch from origin, checks it out and hard-resets it to
// the fetched commit so every branch is scanned from a clean state.
func (r *GitWorkingCopyRepository) Checkout(ctx context.Context, dir, branch, token string) error {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	refSpec := config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, remoteName, branch))
	fetchErr := repository.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Auth:       basicAuth(token),
	})
	if fetchErr != nil && !errors.Is(fetchErr, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to fetch %s: %w", branch, fetchErr)
	}

	remoteRef, err := repository.Reference(plumbing.NewRemoteReferenceName(remoteName, branch), true)
	if err != nil {
		return fmt.Errorf("failed to resolve %s/%s: %w", remoteName, branch, err)
	}

	worktree, err := repository.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	options := &git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(branch), Force: true}
	if _, missingErr := repository.Reference(options.Branch, false); missingErr != nil {
		options.Create = true
		options.Hash = remoteRef.Hash()
	}
	if checkoutErr := worktree.Checkout(options); checkoutErr != nil {
		return fmt.Errorf("failed to checkout %s: %w", branch, checkoutErr)
	}

	if resetErr := worktree.Reset(&git.ResetOptions{
		Commit: remoteRef.Hash(),
		Mode:   git.HardReset,
	}); resetErr != nil {
		return fmt.Errorf("failed to reset %s to %s/%s: %w", branch, remoteName, branch, resetErr)
	}

	r.log.Debugf("Checked out %s at %s", branch, remoteRef.Hash().String())
	return nil
}

func (r *GitWorkingCopyRepository) CurrentBranch(_ context.Context, dir string) (string, error) {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}
	head, err := repository.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", errors.New("HEAD is detached")
	}
	return head.Name().Short(), nil
}

// CreateBranch starts name at HEAD, keeping the uncommitted manifest edits.
func (r *GitWorkingCopyRepository) CreateBranch(_ context.Context, dir, name string) error {
	worktree, err := openWorktree(dir)
	if err != nil {
		return err
	}
	if checkoutErr := worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	}); checkoutErr != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, checkoutErr)
	}
	return nil
}

func (r *GitWorkingCopyRepository) HasChanges(_ context.Context, dir string) (bool, error) {
	worktree, err := openWorktree(dir)
	if err != nil {
		return false, err
	}
	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("failed to read status: %w", err)
	}
	return !status.IsClean(), nil
}

func (r *GitWorkingCopyRepository) CommitAll(_ context.Context, dir, message string) error {
	worktree, err := openWorktree(dir)
	if err != nil {
		return err
	}
	if addErr := worktree.AddWithOptions(&git.AddOptions{All: true}); addErr != nil {
		return fmt.Errorf("failed to stage changes: %w", addErr)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: committerName, Email: committerEmail, When: time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	r.log.Debugf("Created commit %s", hash.String())
	return nil
}

func (r *GitWorkingCopyRepository) Push(ctx context.Context, dir, branch, token string) error {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	refSpec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	pushErr := repository.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{refSpec},
		Auth:       basicAuth(token),
	})
	if pushErr != nil && !errors.Is(pushErr, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("failed to push %s: %w", branch, pushErr)
	}
	return nil
}

// Remote reads the owner and name of the GitHub repository behind origin.
func (r *GitWorkingCopyRepository) Remote(_ context.Context, dir string) (entities.Repository, error) {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		return entities.Repository{}, fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}
	remote, err := repository.Remote(remoteName)
	if err != nil {
		return entities.Repository{}, fmt.Errorf("failed to read remote %s: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return entities.Repository{}, fmt.Errorf("remote %s has no URL", remoteName)
	}

	owner, name, err := parseRemoteURL(urls[0])
	if err != nil {
		return entities.Repository{}, err
	}
	return entities.Repository{
		ID:           name,
		Name:         name,
		Organization: owner,
		RemoteURL:    urls[0],
		ProviderName: providerGitHub,
	}, nil
}

func openWorktree(dir string) (*git.Worktree, error) {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}
	worktree, err := repository.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to open worktree: %w", err)
	}
	return worktree, nil
}

func basicAuth(token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: tokenUsername, Password: token}
}

// parseRemoteURL extracts owner and repository from HTTPS and SSH GitHub remotes.
func parseRemoteURL(rawURL string) (string, string, error) {
	cleaned := strings.TrimSuffix(strings.TrimSpace(rawURL), ".git")
	if !strings.Contains(cleaned, "github.com") {
		return "", "", fmt.Errorf("unsupported git remote URL: %s", rawURL)
	}

	var pathPart string
	if strings.HasPrefix(cleaned, "git@") {
		_, after, ok := strings.Cut(cleaned, ":")
		if !ok {
			return "", "", fmt.Errorf("invalid SSH URL: %s", rawURL)
		}
		pathPart = after
	} else {
		_, after, _ := strings.Cut(cleaned, "github.com")
		pathPart = strings.TrimPrefix(strings.TrimPrefix(after, ":"), "/")
	}

	segments := strings.Split(pathPart, "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" { //nolint:mnd // owner + repo
		return "", "", fmt.Errorf("cannot extract owner/repo from URL: %s", rawURL)
	}
	return segments[0], segments[1], nil
}
