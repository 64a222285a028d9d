package comment

import (
	"sort"

	"github.com/RasParker/modular-maestro-sub000/models"
)

// CommentThread is a top-level comment carrying its direct replies. The
// server organizes one level of nesting; deeper chains the schema allows
// are the client's concern.
type CommentThread struct {
	models.Comment
	Replies []models.Comment `json:"replies"`
}

// BuildCommentTree turns the flat comment rows of one post into a display
// tree. Top-level comments come back in (created_at, id) order so client
// re-sorts stay deterministic across requests; replies are oldest first.
// A reply whose parent is not in the set (deleted, or belonging to
// another post) is dropped entirely rather than surfaced as an orphan.
func BuildCommentTree(rows []models.Comment) []CommentThread {
	topLevel := make([]models.Comment, 0, len(rows))
	repliesByParent := make(map[string][]models.Comment)

	for _, row := range rows {
		if row.ParentID == nil {
			topLevel = append(topLevel, row)
		} else {
			repliesByParent[*row.ParentID] = append(repliesByParent[*row.ParentID], row)
		}
	}

	sortByCreation(topLevel)

	threads := make([]CommentThread, 0, len(topLevel))
	for _, parent := range topLevel {
		replies := repliesByParent[parent.ID]
		if replies == nil {
			replies = []models.Comment{}
		}
		sortByCreation(replies)
		threads = append(threads, CommentThread{Comment: parent, Replies: replies})
	}

	return threads
}

// sortByCreation orders comments by creation time ascending, ties broken
// by id so the order is total.
func sortByCreation(comments []models.Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
}
