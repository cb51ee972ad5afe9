package publish

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/toothbrush/confluence-publish/confluence"
)

// fakeService is an in-memory wiki.
type fakeService struct {
	mu sync.Mutex

	nextID      int
	pages       map[string]*confluence.Page
	stored      map[string]confluence.Content
	labels      map[string][]string
	attachments map[string]map[string]*confluence.Attachment
	uploads     map[string][]string // page ID -> data of every upload, in order

	calls   []string
	creates int

	failCreate map[string]error
	ambiguous  map[string]bool

	// beforeCreate runs before a page is created, without the lock held.
	beforeCreate func(title string)
}

func newFakeService() *fakeService {
	return &fakeService{
		pages:       map[string]*confluence.Page{},
		stored:      map[string]confluence.Content{},
		labels:      map[string][]string{},
		attachments: map[string]map[string]*confluence.Attachment{},
		uploads:     map[string][]string{},
		failCreate:  map[string]error{},
		ambiguous:   map[string]bool{},
	}
}

func (f *fakeService) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// add puts a page straight into the store, below parent if that's non-nil.
func (f *fakeService) add(spaceKey string, parent *confluence.Page, title string) *confluence.Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addLocked(spaceKey, parent, title)
}

func (f *fakeService) addLocked(spaceKey string, parent *confluence.Page, title string) *confluence.Page {
	f.nextID++
	page := &confluence.Page{
		ID:      fmt.Sprint(f.nextID),
		Type:    "page",
		Title:   title,
		Space:   &confluence.SpaceRef{Key: spaceKey},
		Version: &confluence.Version{Number: 1},
	}
	if parent != nil {
		page.Ancestors = append(append([]confluence.Ancestor{}, parent.Ancestors...),
			confluence.Ancestor{ID: parent.ID, Title: parent.Title})
	}
	f.pages[page.ID] = page
	return page
}

func (f *fakeService) byTitle(spaceKey, title string) []*confluence.Page {
	var found []*confluence.Page
	for _, p := range f.pages {
		if p.SpaceKey() == spaceKey && p.Title == title {
			found = append(found, p)
		}
	}
	return found
}

func (f *fakeService) titles() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	titles := map[string]bool{}
	for _, p := range f.pages {
		titles[p.Title] = true
	}
	return titles
}

func (f *fakeService) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeService) GetPageByTitle(_ context.Context, spaceKey, title string) (*confluence.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("lookup %s", title)

	if f.ambiguous[title] {
		return nil, confluence.ErrAmbiguous
	}
	found := f.byTitle(spaceKey, title)
	switch len(found) {
	case 0:
		return nil, confluence.ErrNotFound
	case 1:
		page := *found[0]
		return &page, nil
	}
	return nil, confluence.ErrAmbiguous
}

func (f *fakeService) CreatePage(_ context.Context, spaceKey string, parent *confluence.Page, title string) (*confluence.Page, error) {
	if f.beforeCreate != nil {
		f.beforeCreate(title)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create %s", title)

	if err := f.failCreate[title]; err != nil {
		return nil, err
	}
	if parent != nil {
		if _, ok := f.pages[parent.ID]; !ok {
			return nil, fmt.Errorf("fake: parent %s of %q doesn't exist", parent.ID, title)
		}
	}
	f.creates++
	page := *f.addLocked(spaceKey, parent, title)
	return &page, nil
}

func (f *fakeService) StorePage(_ context.Context, page *confluence.Page, content confluence.Content) (*confluence.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("store %s", page.Title)

	stored, ok := f.pages[page.ID]
	if !ok {
		return nil, confluence.ErrNotFound
	}
	stored.Version.Number++
	f.stored[page.ID] = content
	out := *stored
	return &out, nil
}

func (f *fakeService) AddLabels(_ context.Context, pageID string, labels []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("label %s", f.pages[pageID].Title)
	f.labels[pageID] = labels
	return nil
}

func (f *fakeService) NewAttachment(name, contentType, comment string) *confluence.Attachment {
	a := &confluence.Attachment{Type: "attachment", Title: name}
	a.Metadata.MediaType = contentType
	a.Metadata.Comment = comment
	return a
}

func (f *fakeService) GetAttachment(_ context.Context, pageID, name string, _ int) (*confluence.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	a, ok := f.attachments[pageID][name]
	if !ok {
		return nil, confluence.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (f *fakeService) AddAttachment(_ context.Context, page *confluence.Page, attachment *confluence.Attachment, data io.Reader) (*confluence.Attachment, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("attach %s %s", page.Title, attachment.Title)

	stored := *attachment
	if stored.ID == "" {
		f.nextID++
		stored.ID = fmt.Sprintf("att%d", f.nextID)
	}
	if f.attachments[page.ID] == nil {
		f.attachments[page.ID] = map[string]*confluence.Attachment{}
	}
	f.attachments[page.ID][stored.Title] = &stored
	f.uploads[page.ID] = append(f.uploads[page.ID], string(b))
	return &stored, nil
}

func (f *fakeService) RemovePageByTitle(_ context.Context, parent *confluence.Page, title string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("remove %s", title)

	for _, p := range f.pages {
		if p.Title == title && p.ParentID() == parent.ID {
			f.removeLocked(p.ID)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeService) RemovePage(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	page, ok := f.pages[id]
	if !ok {
		return confluence.ErrNotFound
	}
	f.record("remove %s", page.Title)
	f.removeLocked(id)
	return nil
}

// removeLocked drops a page with everything below it, like the real service does.
func (f *fakeService) removeLocked(id string) {
	for _, p := range f.pages {
		for _, a := range p.Ancestors {
			if a.ID == id {
				delete(f.pages, p.ID)
			}
		}
	}
	delete(f.pages, id)
}

func (f *fakeService) GetDescendents(_ context.Context, id string) ([]confluence.PageSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []confluence.PageSummary
	for _, p := range f.pages {
		for _, a := range p.Ancestors {
			if a.ID == id {
				out = append(out, p.Summary())
				break
			}
		}
	}
	return out, nil
}

var _ Service = (*fakeService)(nil)
