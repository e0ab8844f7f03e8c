package debug

import (
	"fmt"
	"io"
	"strings"

	"github.com/valerio/jeebie-core/jeebie/cpu"
)

const bytesPerLine = 16

// Dump writes length bytes starting at start as a hex listing, 16 bytes a
// line. Addresses wrap at 0xFFFF.
func Dump(w io.Writer, mem cpu.Reader, start uint16, length int) error {
	var sb strings.Builder
	for offset := 0; offset < length; offset += bytesPerLine {
		sb.Reset()
		lineStart := start + uint16(offset)
		fmt.Fprintf(&sb, "0x%04X:", lineStart)
		for i := 0; i < bytesPerLine && offset+i < length; i++ {
			fmt.Fprintf(&sb, " %02X", mem.Read(lineStart+uint16(i)))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}
