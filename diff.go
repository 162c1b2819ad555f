package fieldtl

// DiffResult compares the leaves of two versions of a field value. Leaves
// are matched by text hash, so a text that merely moved is Unchanged: its
// cached translation is still valid.
type DiffResult struct {
	Added     []Leaf         // texts only in the new version
	Removed   []Leaf         // texts only in the old version
	Unchanged []Leaf         // texts in both versions
	Modified  []ModifiedLeaf // a removed and an added text at the same location
}

// ModifiedLeaf is a text that was edited in place.
type ModifiedLeaf struct {
	Old Leaf
	New Leaf
}

// DiffStats counts the entries of a DiffResult.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// Stats returns the size of each category.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges reports whether anything was added, removed or modified.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the leaves an incremental update has to send to
// the backend: added texts, then the new side of modified ones.
func (d *DiffResult) NeedsTranslation() []Leaf {
	out := make([]Leaf, 0, len(d.Added)+len(d.Modified))
	out = append(out, d.Added...)
	for _, m := range d.Modified {
		out = append(out, m.New)
	}
	return out
}

// DiffLeaves compares two Engine.Plan results by text hash. Each distinct
// text is reported once, at its first occurrence; input order is kept.
func DiffLeaves(oldLeaves, newLeaves []Leaf) *DiffResult {
	inOld := hashSet(oldLeaves)
	inNew := hashSet(newLeaves)
	result := &DiffResult{}

	for _, l := range distinct(oldLeaves) {
		if inNew[l.Hash] {
			result.Unchanged = append(result.Unchanged, l)
		} else {
			result.Removed = append(result.Removed, l)
		}
	}
	for _, l := range distinct(newLeaves) {
		if !inOld[l.Hash] {
			result.Added = append(result.Added, l)
		}
	}
	return result
}

// DiffLeavesWithLocation is DiffLeaves that additionally pairs a removed
// and an added leaf at the same location into a Modified entry.
func DiffLeavesWithLocation(oldLeaves, newLeaves []Leaf) *DiffResult {
	result := DiffLeaves(oldLeaves, newLeaves)
	if len(result.Added) == 0 || len(result.Removed) == 0 {
		return result
	}

	removedAt := make(map[string]int, len(result.Removed))
	for i, l := range result.Removed {
		if _, seen := removedAt[l.Location]; !seen {
			removedAt[l.Location] = i
		}
	}

	paired := make(map[int]bool)
	added := result.Added[:0:0]
	for _, l := range result.Added {
		i, ok := removedAt[l.Location]
		if !ok || paired[i] {
			added = append(added, l)
			continue
		}
		paired[i] = true
		result.Modified = append(result.Modified, ModifiedLeaf{Old: result.Removed[i], New: l})
	}

	removed := result.Removed[:0:0]
	for i, l := range result.Removed {
		if !paired[i] {
			removed = append(removed, l)
		}
	}

	result.Added, result.Removed = added, removed
	return result
}

func hashSet(leaves []Leaf) map[string]bool {
	set := make(map[string]bool, len(leaves))
	for _, l := range leaves {
		set[l.Hash] = true
	}
	return set
}

func distinct(leaves []Leaf) []Leaf {
	seen := make(map[string]bool, len(leaves))
	out := make([]Leaf, 0, len(leaves))
	for _, l := range leaves {
		if !seen[l.Hash] {
			seen[l.Hash] = true
			out = append(out, l)
		}
	}
	return out
}
