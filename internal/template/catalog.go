package template

import "deckforge/internal/ir"

// Built-in catalog. Grid coordinates are zero-based on a 12x12 frame.

func builtinTemplates() []*Template {
	titleStyle := ir.Style{FontSize: 44, FontWeight: "bold"}
	headingStyle := ir.Style{FontSize: 32, FontWeight: "bold"}
	bodyStyle := ir.Style{FontSize: 20}
	captionStyle := ir.Style{FontSize: 16}

	return []*Template{
		{
			// Catch-all: empty slot map defers every slot to the
			// layout engine's fallback region.
			ID:        DefaultTemplateID,
			SlideType: "",
			Slots:     map[string]SlotPlacement{},
		},
		{
			ID:        "title-centered",
			SlideType: ir.SlideTitle,
			Slots: map[string]SlotPlacement{
				"title":    {ColumnStart: 1, ColumnSpan: 10, RowStart: 4, RowSpan: 2, MinHeight: 80},
				"subtitle": {ColumnStart: 2, ColumnSpan: 8, RowStart: 6, RowSpan: 1},
			},
			Typography: map[string]ir.Style{"title": titleStyle, "subtitle": bodyStyle},
		},
		{
			ID:        "agenda-list",
			SlideType: ir.SlideAgenda,
			Slots: map[string]SlotPlacement{
				"title": {ColumnStart: 0, ColumnSpan: 12, RowStart: 0, RowSpan: 2},
				"body":  {ColumnStart: 1, ColumnSpan: 10, RowStart: 2, RowSpan: 9},
			},
			Typography: map[string]ir.Style{"title": headingStyle, "body": bodyStyle},
		},
		{
			ID:        "bullet-standard",
			SlideType: ir.SlideBullet,
			Slots: map[string]SlotPlacement{
				"title": {ColumnStart: 0, ColumnSpan: 12, RowStart: 0, RowSpan: 2},
				"body":  {ColumnStart: 0, ColumnSpan: 12, RowStart: 2, RowSpan: 9, MinHeight: 200},
			},
			Typography: map[string]ir.Style{"title": headingStyle, "body": bodyStyle},
		},
		{
			ID:        "two-column-split",
			SlideType: ir.SlideTwoColumn,
			Slots: map[string]SlotPlacement{
				"title": {ColumnStart: 0, ColumnSpan: 12, RowStart: 0, RowSpan: 2},
				"left":  {ColumnStart: 0, ColumnSpan: 6, RowStart: 2, RowSpan: 9},
				"right": {ColumnStart: 6, ColumnSpan: 6, RowStart: 2, RowSpan: 9},
			},
			Typography: map[string]ir.Style{"title": headingStyle, "left": bodyStyle, "right": bodyStyle},
		},
		{
			ID:        "image-right",
			SlideType: ir.SlideImage,
			Slots: map[string]SlotPlacement{
				"title": {ColumnStart: 0, ColumnSpan: 12, RowStart: 0, RowSpan: 2},
				"body":  {ColumnStart: 0, ColumnSpan: 6, RowStart: 2, RowSpan: 9},
				"image": {ColumnStart: 6, ColumnSpan: 6, RowStart: 2, RowSpan: 9, MinWidth: 320, MinHeight: 240},
			},
			Typography: map[string]ir.Style{"title": headingStyle, "body": bodyStyle},
		},
		{
			ID:        "chart-full",
			SlideType: ir.SlideChart,
			Slots: map[string]SlotPlacement{
				"title":   {ColumnStart: 0, ColumnSpan: 12, RowStart: 0, RowSpan: 2},
				"chart":   {ColumnStart: 1, ColumnSpan: 10, RowStart: 2, RowSpan: 8, MinHeight: 280},
				"caption": {ColumnStart: 1, ColumnSpan: 10, RowStart: 10, RowSpan: 1},
			},
			Typography: map[string]ir.Style{"title": headingStyle, "caption": captionStyle},
		},
		{
			ID:        "table-full",
			SlideType: ir.SlideTable,
			Slots: map[string]SlotPlacement{
				"title": {ColumnStart: 0, ColumnSpan: 12, RowStart: 0, RowSpan: 2},
				"table": {ColumnStart: 0, ColumnSpan: 12, RowStart: 2, RowSpan: 9},
			},
			Typography: map[string]ir.Style{"title": headingStyle, "table": captionStyle},
		},
		{
			ID:        "section-break",
			SlideType: ir.SlideSection,
			Slots: map[string]SlotPlacement{
				"title": {ColumnStart: 1, ColumnSpan: 10, RowStart: 5, RowSpan: 2, MinHeight: 64},
			},
			Typography: map[string]ir.Style{"title": titleStyle},
		},
	}
}

func builtinThemes() []*Theme {
	white := BackgroundVariant{ID: DefaultVariantID, Tags: []string{"clean", "minimal"}, CSS: "background: #ffffff"}

	return []*Theme{
		{
			ID:   DefaultThemeID,
			Name: "Minimal Light",
			Tags: []string{"minimal", "clean", "professional"},
			Variants: map[ir.SlideType][]BackgroundVariant{
				ir.SlideTitle: {
					{ID: "soft-gradient", Tags: []string{"calm", "professional"}, CSS: "background: linear-gradient(135deg, #f5f7fa 0%, #c3cfe2 100%)"},
					white,
				},
				ir.SlideSection: {
					{ID: "accent-band", Tags: []string{"bold"}, CSS: "background: linear-gradient(90deg, #e0eafc 0%, #cfdef3 100%)"},
				},
			},
		},
		{
			ID:   "corporate-blue",
			Name: "Corporate Blue",
			Tags: []string{"corporate", "formal", "professional"},
			Variants: map[ir.SlideType][]BackgroundVariant{
				ir.SlideTitle: {
					{ID: "navy-deep", Tags: []string{"formal", "serious"}, CSS: "background: linear-gradient(160deg, #0f2027 0%, #203a43 50%, #2c5364 100%)"},
				},
				ir.SlideSection: {
					{ID: "blue-band", Tags: []string{"formal"}, CSS: "background: #1a365d"},
				},
				ir.SlideBullet: {
					{ID: "paper-white", Tags: []string{"clean"}, CSS: "background: #fafbfc"},
				},
			},
		},
		{
			ID:   "vivid-dark",
			Name: "Vivid Dark",
			Tags: []string{"creative", "bold", "tech"},
			Variants: map[ir.SlideType][]BackgroundVariant{
				ir.SlideTitle: {
					{ID: "aurora", Tags: []string{"creative", "bold"}, CSS: "background: linear-gradient(120deg, #16222a 0%, #3a6073 100%)"},
				},
				ir.SlideChart: {
					{ID: "charcoal", Tags: []string{"tech"}, CSS: "background: #1e1e24"},
				},
			},
		},
	}
}
