package records

// Flatten turns a keyed collection into records, one per mapping-valued entry,
// with the entry key injected under identityField. An identity field already
// present in the document is overwritten. Non-mapping entries are skipped.
func Flatten(snapshot Snapshot, identityField string) RecordSet {
	out := make(RecordSet, 0, len(snapshot.Entries))
	for _, entry := range snapshot.Entries {
		doc, err := entry.Document()
		if err != nil {
			continue
		}
		r := doc.Record()
		r[identityField] = Text(entry.Key)
		out = append(out, r)
	}
	return out
}

// FlattenNested flattens a two-level collection (outer key -> inner key ->
// document), such as conversions grouped by user. Each inner document yields a
// record carrying both keys. Non-mapping nodes at either level are skipped.
func FlattenNested(snapshot Snapshot, outerField, innerField string) RecordSet {
	var out RecordSet
	for _, entry := range snapshot.Entries {
		doc, err := entry.Document()
		if err != nil {
			continue
		}
		for _, child := range doc.Fields {
			if child.Doc == nil {
				continue
			}
			r := child.Doc.Record()
			r[outerField] = Text(entry.Key)
			r[innerField] = Text(child.Name)
			out = append(out, r)
		}
	}
	if out == nil {
		out = RecordSet{}
	}
	return out
}
