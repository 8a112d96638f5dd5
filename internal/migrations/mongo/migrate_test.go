package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func keyNames(keys any) []string {
	d, ok := keys.(bson.D)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(d))
	for _, e := range d {
		names = append(names, e.Key)
	}
	return names
}

func TestCollections_UniqueIndexes(t *testing.T) {
	want := map[string][]string{
		"Availability": {"date", "time_slot", "team_number"},
		"Bookings":     {"booking_number"},
		"Services":     {"slug"},
	}

	for _, c := range Collections() {
		keys, ok := want[c.Name]
		if !ok {
			t.Errorf("unexpected collection %s", c.Name)
			continue
		}
		if c.Validator == nil {
			t.Errorf("%s has no validator", c.Name)
		}

		found := false
		for _, idx := range c.Indexes {
			if idx.Options == nil || idx.Options.Unique == nil || !*idx.Options.Unique {
				continue
			}
			got := keyNames(idx.Keys)
			if len(got) != len(keys) {
				continue
			}
			match := true
			for i := range got {
				if got[i] != keys[i] {
					match = false
				}
			}
			found = found || match
		}
		if !found {
			t.Errorf("%s is missing a unique index on %v", c.Name, keys)
		}
		delete(want, c.Name)
	}

	for name := range want {
		t.Errorf("collection %s not migrated", name)
	}
}
