package assets

import (
	_ "embed"
)

// IconCupFull is the tray icon shown while keep-awake is active.
//
//go:embed pep-cup-full.png
var IconCupFull []byte

// IconCupEmpty is the tray icon shown while keep-awake is inactive.
//
//go:embed pep-cup-empty.png
var IconCupEmpty []byte
