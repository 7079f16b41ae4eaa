package dashboard

// SectionView is a section with the indicators that render inside it.
type SectionView struct {
	Section    SectionDefinition
	Indicators []IndicatorDefinition
}

// groupSections places indicators under their sections. Indicators with an
// unknown or empty section land in a trailing section keyed "".
func groupSections(sections []SectionDefinition, defs []IndicatorDefinition, order []string) []SectionView {
	sections = applyOrderOverride(sections, order)
	index := make(map[string]int, len(sections))
	views := make([]SectionView, len(sections))
	for i, section := range sections {
		index[section.Code] = i
		views[i] = SectionView{Section: section}
	}
	var orphans []IndicatorDefinition
	for _, def := range defs {
		if i, ok := index[def.Section]; ok {
			views[i].Indicators = append(views[i].Indicators, def)
			continue
		}
		orphans = append(orphans, def)
	}
	if len(orphans) > 0 {
		views = append(views, SectionView{Indicators: orphans})
	}
	return views
}

func applyOrderOverride(sections []SectionDefinition, order []string) []SectionDefinition {
	if len(order) == 0 {
		return sections
	}
	index := make(map[string]SectionDefinition, len(sections))
	for _, s := range sections {
		index[s.Code] = s
	}
	result := make([]SectionDefinition, 0, len(sections))
	seen := make(map[string]struct{}, len(order))
	for _, code := range order {
		if s, ok := index[code]; ok {
			if _, dup := seen[code]; dup {
				continue
			}
			result = append(result, s)
			seen[code] = struct{}{}
		}
	}
	for _, s := range sections {
		if _, ok := seen[s.Code]; !ok {
			result = append(result, s)
		}
	}
	return result
}
