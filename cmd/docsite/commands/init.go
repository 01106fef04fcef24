package commands

import (
	"log/slog"
	"path/filepath"

	"github.com/biginformatics/docsite/internal/config"
	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/gitinfo"
	"github.com/biginformatics/docsite/internal/logfields"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool   `help:"Overwrite existing configuration file"`
	Title string `help:"Site title (defaults to the project name)"`
	NoGit bool   `help:"Do not read organization and project names from the git origin remote"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	starter := config.Starter{Title: i.Title}
	if !i.NoGit {
		starter = starterFromGit(filepath.Dir(root.Config), starter)
	}

	printf(g, "Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force, starter); err != nil {
		return ferrors.FileSystemError("initialization failed").WithCause(err).UserAction().Build()
	}
	printf(g, "Initialized %s\n", root.Config)
	return nil
}

// starterFromGit fills names and URLs from the repository containing dir.
func starterFromGit(dir string, s config.Starter) config.Starter {
	info, err := gitinfo.Inspect(dir)
	if err != nil {
		slog.Info("Git remote unavailable; using placeholder names", logfields.Path(dir), logfields.Error(err))
		return s
	}
	s.OrganizationName = info.Organization
	s.ProjectName = info.Project
	s.RepoURL = info.WebURL()

	// The edit prefix points at the config directory; the docs path is
	// appended per document.
	siteDir := ""
	if info.Root != "" {
		if rel, err := filepath.Rel(info.Root, dir); err == nil && rel != "." {
			siteDir = filepath.ToSlash(rel)
		}
	}
	s.EditURL = info.EditURL(siteDir)
	return s
}
