package render

import "github.com/gdamore/tcell/v2"

var (
	RgbBackground  = tcell.NewRGBColor(255, 249, 249) // Page blush
	RgbAccent      = tcell.NewRGBColor(155, 20, 18)   // Crimson buttons and labels
	RgbAccentDark  = tcell.NewRGBColor(122, 15, 14)   // Crimson hovered
	RgbPanel       = tcell.NewRGBColor(255, 255, 255) // Digit panel
	RgbPanelText   = tcell.NewRGBColor(31, 41, 55)    // Gray 800
	RgbArrow       = tcell.NewRGBColor(55, 65, 81)    // Gray 700
	RgbDecline     = tcell.NewRGBColor(229, 231, 235) // Gray 200
	RgbScratch     = tcell.NewRGBColor(212, 212, 216) // Scratch coating
	RgbDim         = tcell.NewRGBColor(20, 20, 20)    // Detail backdrop
	RgbPlaceholder = tcell.NewRGBColor(120, 110, 110) // Missing asset label
	RgbStatusBar   = tcell.NewRGBColor(26, 27, 38)    // Debug line background
	RgbStatusText  = tcell.NewRGBColor(200, 200, 200) // Debug line text
)
