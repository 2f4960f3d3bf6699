package style

import "github.com/alnah/go-resume2pdf/internal/document"

// sectionSpacerPt is the extra gap above section headings (0.1in).
const sectionSpacerPt = 7.2

// defaultBlocks is the résumé style table.
func defaultBlocks() map[document.Kind]Style {
	return map[document.Kind]Style{
		document.KindTitle: {
			Font:         SansFont,
			Weight:       WeightBold,
			SizePt:       24,
			Color:        ColorInk,
			SpaceAfterPt: 6,
			Align:        AlignCenter,
		},
		document.KindContactLine: {
			Font:         SansFont,
			Weight:       WeightNormal,
			SizePt:       10,
			Color:        ColorSubtle,
			SpaceAfterPt: 2,
			Align:        AlignCenter,
		},
		document.KindSectionHeading: {
			Font:          SansFont,
			Weight:        WeightBold,
			SizePt:        14,
			Color:         ColorPrimary,
			SpaceBeforePt: 12 + sectionSpacerPt,
			SpaceAfterPt:  8,
			Rule:          &Rule{WidthPt: 1, Color: ColorAccent, PaddingPt: 4},
		},
		document.KindSubsectionHeading: {
			Font:          SansFont,
			Weight:        WeightBold,
			SizePt:        12,
			Color:         ColorSecondary,
			SpaceBeforePt: 8,
			SpaceAfterPt:  6,
		},
		document.KindMetaLine: {
			Font:         SansFont,
			Weight:       WeightNormal,
			SizePt:       10,
			LeadingPt:    14,
			Color:        ColorPrimary,
			SpaceAfterPt: 6,
		},
		document.KindBullet: {
			Font:          SansFont,
			Weight:        WeightNormal,
			SizePt:        10,
			LeadingPt:     13,
			Color:         ColorPrimary,
			SpaceAfterPt:  4,
			IndentPt:      20,
			Glyph:         BulletGlyph,
			GlyphIndentPt: 10,
		},
		document.KindParagraph: {
			Font:         SansFont,
			Weight:       WeightNormal,
			SizePt:       10,
			LeadingPt:    14,
			Color:        ColorPrimary,
			SpaceAfterPt: 6,
		},
	}
}

var defaultSheet = mustDefault()

func mustDefault() *Sheet {
	s, err := New(Letter, defaultBlocks(),
		RunStyle{Font: MonoFont, Color: ColorCode},
		RunStyle{Font: SansFont, Color: ColorAccent},
	)
	if err != nil {
		panic("style: invalid default sheet: " + err.Error())
	}
	return s
}

// Default returns the résumé style sheet. The same sheet is shared by every
// caller; it is read-only.
func Default() *Sheet {
	return defaultSheet
}
