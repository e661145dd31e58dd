package registry

import (
	"os"

	"github.com/sevigo/codewarden-kit/internal/core"
	"github.com/sevigo/codewarden-kit/internal/gitutil"
)

// GitHubResolver resolves local filesystem paths directly and treats
// anything else as an "owner/repo" slug or a full GitHub URL, attaching a
// token looked up per-repo from tokenForRepo.
type GitHubResolver struct {
	tokenForRepo func(owner, repo string) string
}

func NewGitHubResolver(tokenForRepo func(owner, repo string) string) *GitHubResolver {
	if tokenForRepo == nil {
		tokenForRepo = func(string, string) string { return "" }
	}
	return &GitHubResolver{tokenForRepo: tokenForRepo}
}

func (r *GitHubResolver) Resolve(source string) (owner, repo, cloneURL, token string, isLocal bool, err error) {
	if info, statErr := os.Stat(source); statErr == nil && info.IsDir() {
		return "", "", "", "", true, nil
	}

	owner, repo, parseErr := gitutil.OwnerRepoFromSlugOrURL(source)
	if parseErr != nil {
		return "", "", "", "", false, core.WrapError(core.KindInvalidInput, "resolve repository source", parseErr)
	}
	token = r.tokenForRepo(owner, repo)
	cloneURL = "https://github.com/" + owner + "/" + repo + ".git"
	return owner, repo, cloneURL, token, false, nil
}
