// Package workspace resolves an optional filesystem root for
// reachability analysis, either from a local path or by cloning the
// product's source repository.
package workspace

import (
	"os"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/ortelius/vexmgt-backend/util"
)

// Provider materializes source trees for scanning
type Provider struct {
	logger *zap.SugaredLogger
}

// NewProvider creates a workspace provider
func NewProvider(logger *zap.SugaredLogger) *Provider {
	return &Provider{logger: logger}
}

// Resolve returns a scannable root and a cleanup function. An explicit
// local path wins over the source URL; a URL is shallow-cloned into a
// temp directory. Absence of both, or a failed clone, is a logged no-op
// returning an empty root, since reachability is optional.
func (p *Provider) Resolve(localPath, sourceURL string) (string, func()) {
	noop := func() {}

	if util.IsNotEmpty(localPath) {
		if !util.FileExists(localPath) {
			p.logger.Warnw("Source path not accessible, skipping reachability", "path", localPath)
			return "", noop
		}
		return localPath, noop
	}

	if util.IsEmpty(sourceURL) {
		return "", noop
	}

	tempDir, err := os.MkdirTemp("", "vexmgt-workspace-*")
	if err != nil {
		p.logger.Warnw("Failed to create workspace directory, skipping reachability", "error", err)
		return "", noop
	}
	cleanup := func() { os.RemoveAll(tempDir) }

	_, err = git.PlainClone(tempDir, false, &git.CloneOptions{
		URL:      sourceURL,
		Depth:    1,
		Progress: nil,
	})
	if err != nil {
		p.logger.Warnw("Failed to clone source repository, skipping reachability", "url", sourceURL, "error", err)
		cleanup()
		return "", noop
	}

	return tempDir, cleanup
}
