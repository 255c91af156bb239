package project

import (
	"sort"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const shortHashLen = 7

// Version describes the checked-out revision of the repository containing
// root: the name of a tag pointing at HEAD (highest name wins when several
// do), otherwise the abbreviated HEAD commit hash.
func Version(root string) (string, bool) {
	repo, err := ggit.PlainOpenWithOptions(root, &ggit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	head, err := repo.Head()
	if err != nil {
		return "", false
	}

	var tags []string
	iter, err := repo.Tags()
	if err == nil {
		_ = iter.ForEach(func(ref *plumbing.Reference) error {
			if tagTarget(repo, ref) == head.Hash() {
				tags = append(tags, ref.Name().Short())
			}
			return nil
		})
	}
	if len(tags) > 0 {
		sort.Strings(tags)
		return tags[len(tags)-1], true
	}

	return head.Hash().String()[:shortHashLen], true
}

// tagTarget resolves annotated tags to the commit they point at.
func tagTarget(repo *ggit.Repository, ref *plumbing.Reference) plumbing.Hash {
	if obj, err := repo.TagObject(ref.Hash()); err == nil {
		return obj.Target
	}
	return ref.Hash()
}
