package entity

import (
	"fmt"
	"strings"

	"github.com/luvlist-lab/backend/pkg/enum"
)

// ContentKind tags the closed set of user-generated content types. It
// replaces runtime type inspection everywhere a row points at "some piece
// of content".
type ContentKind string

var (
	KindPost          = enum.New(ContentKind("post"))
	KindSay           = enum.New(ContentKind("say"))
	KindPin           = enum.New(ContentKind("pin"))
	KindRepost        = enum.New(ContentKind("repost"))
	KindReadCheckin   = enum.New(ContentKind("read_checkin"))
	KindListenCheckin = enum.New(ContentKind("listen_checkin"))
	KindWatchCheckin  = enum.New(ContentKind("watch_checkin"))
	KindGameCheckin   = enum.New(ContentKind("game_checkin"))
)

// ContentKinds lists every kind, in no particular order.
var ContentKinds = []ContentKind{
	KindPost, KindSay, KindPin, KindRepost,
	KindReadCheckin, KindListenCheckin, KindWatchCheckin, KindGameCheckin,
}

func (k ContentKind) IsCheckin() bool {
	return strings.HasSuffix(string(k), "_checkin")
}

// Label is the human-readable kind name used verbatim in notification
// messages: "Post", "Say", ..., and "Read Check-in" for check-in kinds.
func (k ContentKind) Label() string {
	name := string(k)
	if k.IsCheckin() {
		return capitalize(strings.TrimSuffix(name, "_checkin")) + " Check-in"
	}

	return capitalize(name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}

// ContentRef is a typed polymorphic reference: kind tag plus row id.
type ContentRef struct {
	Kind     ContentKind `gorm:"size:32"`
	ObjectID int64
}

func NewContentRef(kind ContentKind, objectID int64) ContentRef {
	return ContentRef{Kind: kind, ObjectID: objectID}
}

// IsZero reports whether the reference points at nothing. Used for
// notifications without a subject.
func (r ContentRef) IsZero() bool {
	return r.Kind == "" && r.ObjectID == 0
}

// AbsolutePath is the canonical detail-page path of the referenced
// content, relative to the site root.
func (r ContentRef) AbsolutePath() string {
	if r.Kind.IsCheckin() {
		medium := strings.TrimSuffix(string(r.Kind), "_checkin")
		return fmt.Sprintf("/checkins/%s/%d", medium, r.ObjectID)
	}

	return fmt.Sprintf("/%ss/%d", r.Kind, r.ObjectID)
}
