// Package gitinfo derives project identity (organization, project, edit URL)
// from a local git checkout's origin remote.
package gitinfo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/biginformatics/docsite/internal/editlink"
)

// DefaultRemote is the remote consulted by Inspect.
const DefaultRemote = "origin"

// ErrNoRemote is returned when the repository has no usable remote.
var ErrNoRemote = errors.New("repository has no origin remote")

// Info describes the hosting of a repository.
type Info struct {
	Host         string
	Organization string
	Project      string
	// Branch is the checked out branch, "main" when HEAD is detached or unborn.
	Branch string
	Forge  editlink.ForgeType
	// Root is the worktree root; empty for ParseRemote results.
	Root string
}

// WebURL is the repository's browser URL.
func (i Info) WebURL() string {
	return "https://" + i.Host + "/" + i.Organization + "/" + i.Project
}

// EditURL returns the edit URL base for documents stored under docsDir.
func (i Info) EditURL(docsDir string) string {
	base := editlink.EditBase(i.Forge, "https://"+i.Host, i.Organization+"/"+i.Project, i.Branch)
	if base == "" {
		return ""
	}
	if docsDir = strings.Trim(docsDir, "/"); docsDir != "" {
		base += docsDir + "/"
	}
	return base
}

// Inspect opens the repository containing dir and reads its origin remote.
func Inspect(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", dir, err)
	}
	remote, err := repo.Remote(DefaultRemote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return nil, ErrNoRemote
		}
		return nil, fmt.Errorf("read remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, ErrNoRemote
	}

	info, err := ParseRemote(urls[0])
	if err != nil {
		return nil, err
	}
	if wt, err := repo.Worktree(); err == nil {
		info.Root = wt.Filesystem.Root()
	}
	info.Branch = "main"
	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	return info, nil
}

// ParseRemote extracts host, organization and project from a clone URL in
// any form git accepts (https, ssh, scp-like).
func ParseRemote(raw string) (*Info, error) {
	ep, err := transport.NewEndpoint(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse remote %q: %w", raw, err)
	}
	if ep.Host == "" {
		return nil, fmt.Errorf("remote %q has no host", raw)
	}
	path := strings.TrimSuffix(strings.Trim(ep.Path, "/"), ".git")
	idx := strings.LastIndex(path, "/")
	if idx <= 0 || idx == len(path)-1 {
		return nil, fmt.Errorf("remote %q: expected <organization>/<project> path, got %q", raw, ep.Path)
	}
	host := strings.ToLower(ep.Host)
	return &Info{
		Host: host,
		// GitLab subgroups keep their full namespace.
		Organization: path[:idx],
		Project:      path[idx+1:],
		Forge:        editlink.DetectForge(host),
	}, nil
}
