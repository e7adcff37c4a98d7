package critique_test

import "github.com/kodevadam/crucible/internal/critique"

// fakeStore is a minimal in-memory ItemStore + DispositionStore for tests,
// mirroring the shape of the teacher's internal/storage/memory backends.
type fakeStore struct {
	items        map[string]critique.CritiqueItem
	dispositions map[string][]critique.DispositionRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:        make(map[string]critique.CritiqueItem),
		dispositions: make(map[string][]critique.DispositionRecord),
	}
}

func (s *fakeStore) GetItem(id string) (critique.CritiqueItem, bool) {
	item, ok := s.items[id]
	return item, ok
}

func (s *fakeStore) AllItems() []critique.CritiqueItem {
	out := make([]critique.CritiqueItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	return out
}

func (s *fakeStore) DispositionsFor(itemID string) []critique.DispositionRecord {
	return s.dispositions[itemID]
}

func (s *fakeStore) putItems(items []critique.CritiqueItem) error {
	for _, item := range items {
		s.items[item.ID] = item
	}
	return nil
}

func (s *fakeStore) putDispositions(records []critique.DispositionRecord) error {
	for _, r := range records {
		s.dispositions[r.ItemID] = append(s.dispositions[r.ItemID], r)
	}
	return nil
}
