package session

import (
	"fmt"
	"time"

	"github.com/Satvik374/Study-App/internal/learning"
	"github.com/Satvik374/Study-App/internal/notebook"
)

// Selection describes which items a test is about.
type Selection struct {
	Scope notebook.Scope
	// ChapterIDs limits the test to these chapters. Empty means every chapter.
	ChapterIDs []string
	// ItemID is the item of a ScopeSpecific test.
	ItemID string
	Tag    string
}

// SelectPool resolves a selection to the items of a test. Due items are
// looked up across the whole notebook.
func SelectPool(nb *notebook.Notebook, states learning.ReviewStates, sel Selection, now time.Time) ([]notebook.Item, error) {
	var (
		items []notebook.Item
		err   error
	)
	switch sel.Scope {
	case notebook.ScopeDue:
		items = learning.DueItems(nb.Items(), states, now)
	default:
		chapterIDs := sel.ChapterIDs
		if len(chapterIDs) == 0 {
			chapterIDs = nb.ChapterIDs()
		}
		items, err = nb.Select(sel.Scope, chapterIDs, sel.ItemID)
		if err != nil {
			return nil, fmt.Errorf("nb.Select(%s) > %w", sel.Scope, err)
		}
	}

	items = notebook.Filter(items, sel.Tag)
	if len(items) == 0 {
		return nil, ErrEmptyPool
	}
	return items, nil
}
