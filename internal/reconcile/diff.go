package reconcile

import "github.com/yuriy-kovalchuk/yk-dynadot-updater/internal/dns"

// Change is a slot whose value differs between current and declared.
type Change struct {
	From dns.Record `json:"from" yaml:"from"`
	To   dns.Record `json:"to" yaml:"to"`
}

// Diff describes how declared subdomains differ from the current ones.
type Diff struct {
	Added   []dns.Record `json:"added,omitempty" yaml:"added,omitempty"`
	Removed []dns.Record `json:"removed,omitempty" yaml:"removed,omitempty"`
	Changed []Change     `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// Empty reports whether the diff has no entries.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// slotIndex maps slots to records. A repeated slot keeps its first position
// and the last record.
type slotIndex struct {
	order  []dns.Slot
	bySlot map[dns.Slot]dns.Record
}

func indexBySlot(records []dns.Record) slotIndex {
	idx := slotIndex{bySlot: make(map[dns.Slot]dns.Record, len(records))}
	for _, r := range records {
		s := r.Slot()
		if _, ok := idx.bySlot[s]; !ok {
			idx.order = append(idx.order, s)
		}
		idx.bySlot[s] = r
	}
	return idx
}

// DiffSubdomains compares current and declared records by slot. Added and
// Changed follow declared order, Removed follows current order. Values are
// compared as plain strings.
func DiffSubdomains(current, declared []dns.Record) Diff {
	cur := indexBySlot(current)
	want := indexBySlot(declared)

	var d Diff
	for _, s := range want.order {
		next := want.bySlot[s]
		prev, ok := cur.bySlot[s]
		switch {
		case !ok:
			d.Added = append(d.Added, next)
		case prev.Value != next.Value:
			d.Changed = append(d.Changed, Change{From: prev, To: next})
		}
	}
	for _, s := range cur.order {
		if _, ok := want.bySlot[s]; !ok {
			d.Removed = append(d.Removed, cur.bySlot[s])
		}
	}
	return d
}
