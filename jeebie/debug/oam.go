package debug

import (
	"fmt"

	"github.com/valerio/jeebie-core/jeebie/video"
)

// MaxSpritesPerLine is the hardware limit per scanline.
const MaxSpritesPerLine = 10

// SpriteSource is anything that decodes OAM. *video.PPU satisfies it.
type SpriteSource interface {
	Sprites() []video.Sprite
}

type SpriteInfo struct {
	video.Sprite
	// OnLine is set when the sprite overlaps the inspected scanline.
	OnLine bool
}

func (s SpriteInfo) String() string {
	status := "OFF"
	if s.OnLine {
		status = "ACTIVE"
	}
	return fmt.Sprintf("Sprite %2d: Y=%4d X=%4d Tile=0x%02X Flags=0x%02X [%s]",
		s.OAMIndex, s.Y, s.X, s.TileIndex, s.Flags, status)
}

type OAMData struct {
	Sprites      []SpriteInfo
	Line         int
	Active       int
	SpriteHeight int
}

// ExtractOAM decodes OAM and marks the sprites covering line.
func ExtractOAM(src SpriteSource, line int) OAMData {
	sprites := src.Sprites()
	data := OAMData{Line: line, Sprites: make([]SpriteInfo, len(sprites))}

	for i, s := range sprites {
		onLine := s.Y <= line && line < s.Y+s.Height
		if onLine {
			data.Active++
		}
		data.Sprites[i] = SpriteInfo{Sprite: s, OnLine: onLine}
		data.SpriteHeight = s.Height
	}
	return data
}

// Visible lists sprites placed at least partly on screen.
func (data OAMData) Visible() []SpriteInfo {
	var visible []SpriteInfo
	for _, s := range data.Sprites {
		if s.X > -8 && s.X < video.FramebufferWidth && s.Y > -s.Height && s.Y < video.FramebufferHeight {
			visible = append(visible, s)
		}
	}
	return visible
}

func (data OAMData) FormatSummary() string {
	return fmt.Sprintf("Line: %d | Active sprites: %d/%d | Height: %dpx",
		data.Line, data.Active, MaxSpritesPerLine, data.SpriteHeight)
}
