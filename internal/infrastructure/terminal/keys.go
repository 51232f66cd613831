package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
)

var specialKeys = map[tcell.Key]ebiten.Key{
	tcell.KeyEscape:     ebiten.KeyEscape,
	tcell.KeyEnter:      ebiten.KeyEnter,
	tcell.KeyTab:        ebiten.KeyTab,
	tcell.KeyBackspace:  ebiten.KeyBackspace,
	tcell.KeyBackspace2: ebiten.KeyBackspace,
	tcell.KeyDelete:     ebiten.KeyDelete,
	tcell.KeyInsert:     ebiten.KeyInsert,
	tcell.KeyUp:         ebiten.KeyArrowUp,
	tcell.KeyDown:       ebiten.KeyArrowDown,
	tcell.KeyLeft:       ebiten.KeyArrowLeft,
	tcell.KeyRight:      ebiten.KeyArrowRight,
	tcell.KeyHome:       ebiten.KeyHome,
	tcell.KeyEnd:        ebiten.KeyEnd,
	tcell.KeyPgUp:       ebiten.KeyPageUp,
	tcell.KeyPgDn:       ebiten.KeyPageDown,
	tcell.KeyF1:         ebiten.KeyF1,
	tcell.KeyF2:         ebiten.KeyF2,
	tcell.KeyF3:         ebiten.KeyF3,
	tcell.KeyF4:         ebiten.KeyF4,
	tcell.KeyF5:         ebiten.KeyF5,
	tcell.KeyF6:         ebiten.KeyF6,
	tcell.KeyF7:         ebiten.KeyF7,
	tcell.KeyF8:         ebiten.KeyF8,
	tcell.KeyF9:         ebiten.KeyF9,
	tcell.KeyF10:        ebiten.KeyF10,
	tcell.KeyF11:        ebiten.KeyF11,
	tcell.KeyF12:        ebiten.KeyF12,
}

var runeKeys = map[rune]ebiten.Key{
	'a': ebiten.KeyA, 'b': ebiten.KeyB, 'c': ebiten.KeyC, 'd': ebiten.KeyD,
	'e': ebiten.KeyE, 'f': ebiten.KeyF, 'g': ebiten.KeyG, 'h': ebiten.KeyH,
	'i': ebiten.KeyI, 'j': ebiten.KeyJ, 'k': ebiten.KeyK, 'l': ebiten.KeyL,
	'm': ebiten.KeyM, 'n': ebiten.KeyN, 'o': ebiten.KeyO, 'p': ebiten.KeyP,
	'q': ebiten.KeyQ, 'r': ebiten.KeyR, 's': ebiten.KeyS, 't': ebiten.KeyT,
	'u': ebiten.KeyU, 'v': ebiten.KeyV, 'w': ebiten.KeyW, 'x': ebiten.KeyX,
	'y': ebiten.KeyY, 'z': ebiten.KeyZ,
	'0': ebiten.KeyDigit0, '1': ebiten.KeyDigit1, '2': ebiten.KeyDigit2,
	'3': ebiten.KeyDigit3, '4': ebiten.KeyDigit4, '5': ebiten.KeyDigit5,
	'6': ebiten.KeyDigit6, '7': ebiten.KeyDigit7, '8': ebiten.KeyDigit8,
	'9': ebiten.KeyDigit9,
	' ': ebiten.KeySpace,
}

// translateKey maps a terminal key to ebiten's key vocabulary. Printable
// characters without a physical key equivalent report ok == false.
func translateKey(ev *tcell.EventKey) (ebiten.Key, bool) {
	if ev.Key() == tcell.KeyRune {
		k, ok := runeKeys[unicode.ToLower(ev.Rune())]
		return k, ok
	}
	k, ok := specialKeys[ev.Key()]
	return k, ok
}
