// Package visibility decides whether a viewer may see a post.
//
// Privacy is expressed at two granularities, the post and its containing
// list, and the two commonly disagree (a public post dropped into a private
// list, or the reverse). The policy always resolves to the stricter of the
// two so that neither path can downgrade the other's privacy.
package visibility

import (
	"context"

	"aura/internal/models"
)

// FriendChecker reports whether two users are accepted friends.
// Implementations must be symmetric in their arguments.
type FriendChecker interface {
	AreFriends(ctx context.Context, userID, otherID uint) (bool, error)
}

// AccessChecker reports whether a user holds an accepted access grant on a
// list. Pending or rejected grants must not count.
type AccessChecker interface {
	HasAcceptedAccess(ctx context.Context, listID, userID uint) (bool, error)
}

// TagChecker reports whether a user is a tagged recipient of a post.
type TagChecker interface {
	IsTagged(ctx context.Context, postID, userID uint) (bool, error)
}

// AnonymousViewer is the viewer ID used for unauthenticated requests.
const AnonymousViewer uint = 0

// Policy evaluates post visibility against the social graph and list
// access grants. All lookups fail closed: an error from any predicate
// hides the post.
type Policy struct {
	friends FriendChecker
	access  AccessChecker
	tags    TagChecker
}

// NewPolicy returns a Policy backed by the given predicates.
func NewPolicy(friends FriendChecker, access AccessChecker, tags TagChecker) *Policy {
	return &Policy{
		friends: friends,
		access:  access,
		tags:    tags,
	}
}

// EffectivePrivacy returns the stricter of the post's own privacy and its
// list's privacy level. The built-in General list never restricts, and a
// post without a loaded list falls back to its own privacy alone.
func EffectivePrivacy(post *models.Post, list *models.List) models.Privacy {
	if list == nil || list.IsGeneral() {
		return post.Privacy
	}
	return models.StricterOf(post.Privacy, list.PrivacyLevel)
}

// IsVisible reports whether viewerID may see the post. viewerID of
// AnonymousViewer means an unauthenticated viewer. The list argument is
// the post's containing list; nil is treated like the General list.
func (p *Policy) IsVisible(ctx context.Context, post *models.Post, list *models.List, viewerID uint) bool {
	if post == nil {
		return false
	}

	// Authors always see their own content, regardless of privacy.
	if viewerID != AnonymousViewer && viewerID == post.UserID {
		return true
	}

	effective := EffectivePrivacy(post, list)

	if viewerID == AnonymousViewer {
		return effective == models.PrivacyPublic
	}

	switch effective {
	case models.PrivacyPublic:
		return true

	case models.PrivacyConnections:
		friends, err := p.friends.AreFriends(ctx, viewerID, post.UserID)
		if err != nil {
			return false
		}
		return friends

	default: // private, or any unknown value
		ok, err := p.access.HasAcceptedAccess(ctx, post.ListID, viewerID)
		if err != nil {
			return false
		}
		if ok {
			return true
		}
		tagged, err := p.tags.IsTagged(ctx, post.ID, viewerID)
		if err != nil {
			return false
		}
		return tagged
	}
}

// FilterVisible returns the subset of posts visible to viewerID,
// preserving input order. Each post's preloaded List is consulted for the
// list-level privacy component.
func (p *Policy) FilterVisible(ctx context.Context, posts []*models.Post, viewerID uint) []*models.Post {
	visible := make([]*models.Post, 0, len(posts))
	for _, post := range posts {
		if p.IsVisible(ctx, post, post.List, viewerID) {
			visible = append(visible, post)
		}
	}
	return visible
}
