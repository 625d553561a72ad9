package ir

// Deep-copy helpers. Versioning and deck assembly both depend on
// snapshots being fully independent of the source IR: mutating a
// restored version must never reach back into stored history.

// Clone returns a deep copy of the deck.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	out := &Deck{
		ID:      d.ID,
		Title:   d.Title,
		ThemeID: d.ThemeID,
	}
	if d.Variants != nil {
		out.Variants = make(map[SlideType]string, len(d.Variants))
		for k, v := range d.Variants {
			out.Variants[k] = v
		}
	}
	if d.Slides != nil {
		out.Slides = make([]*Slide, len(d.Slides))
		for i, s := range d.Slides {
			out.Slides[i] = s.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the slide.
func (s *Slide) Clone() *Slide {
	if s == nil {
		return nil
	}
	out := &Slide{
		ID:          s.ID,
		Title:       s.Title,
		Type:        s.Type,
		Stage:       s.Stage,
		Reflections: s.Reflections,
	}
	if s.Score != nil {
		score := *s.Score
		out.Score = &score
	}
	if s.Metrics != nil {
		m := *s.Metrics
		out.Metrics = &m
	}
	if s.Issues != nil {
		out.Issues = make([]Issue, len(s.Issues))
		copy(out.Issues, s.Issues)
	}
	if s.Slots != nil {
		out.Slots = make(map[string]*Slot, len(s.Slots))
		for id, slot := range s.Slots {
			out.Slots[id] = slot.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the slot, including its content variant.
func (s *Slot) Clone() *Slot {
	if s == nil {
		return nil
	}
	out := &Slot{
		ID:     s.ID,
		Export: s.Export,
	}
	if s.BBox != nil {
		b := *s.BBox
		out.BBox = &b
	}
	if s.Style != nil {
		st := *s.Style
		out.Style = &st
	}
	out.Content = cloneContent(s.Content)
	return out
}

func cloneContent(c SlotContent) SlotContent {
	switch v := c.(type) {
	case *TextContent:
		cp := *v
		return &cp
	case *BulletContent:
		cp := BulletContent{Items: make([]string, len(v.Items))}
		copy(cp.Items, v.Items)
		return &cp
	case *ImageContent:
		cp := *v
		return &cp
	case *ChartContent:
		cp := ChartContent{
			ChartType:  v.ChartType,
			Categories: make([]string, len(v.Categories)),
			Series:     make([]ChartSeries, 0, len(v.Series)),
		}
		copy(cp.Categories, v.Categories)
		for _, s := range v.Series {
			vs := ChartSeries{Name: s.Name, Values: make([]float64, len(s.Values))}
			copy(vs.Values, s.Values)
			cp.Series = append(cp.Series, vs)
		}
		return &cp
	case *TableContent:
		cp := TableContent{
			Headers: make([]string, len(v.Headers)),
			Rows:    make([][]string, len(v.Rows)),
		}
		copy(cp.Headers, v.Headers)
		for i, row := range v.Rows {
			cp.Rows[i] = make([]string, len(row))
			copy(cp.Rows[i], row)
		}
		return &cp
	default:
		return nil
	}
}
