package story

// IDIndex maps a section id to all sections declared with it. More than one
// entry per id means the story has duplicate section names.
type IDIndex map[string][]*Section

// ReverseLinkIndex maps a section id to ids of sections whose choices
// directly reference it.
type ReverseLinkIndex map[string][]string

// BuildIDIndex indexes sections by normalized id in declaration order.
func (s *Story) BuildIDIndex() IDIndex {
	index := make(IDIndex, len(s.Sections))
	for _, sec := range s.Sections {
		index[sec.ID] = append(index[sec.ID], sec)
	}
	return index
}

// BuildReverseLinkIndex collects direct references between sections. Only
// choice targets count - being reachable through the entry point does not
// make a section referenced.
func (s *Story) BuildReverseLinkIndex() ReverseLinkIndex {
	index := make(ReverseLinkIndex)
	for _, sec := range s.Sections {
		for _, c := range sec.Choices {
			index[c.Target] = append(index[c.Target], sec.ID)
		}
	}
	return index
}
