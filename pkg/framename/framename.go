// Package framename recovers camera identity and frame index from image
// file names such as "pano_camera3_frame_00042.png".
//
// This is the only place where file name structure is interpreted; every
// later stage works on the extracted Key.
package framename

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DefaultGroupToken is the literal prefix that precedes the camera number.
const DefaultGroupToken = "pano_camera"

// imageExts is the set of recognised image extensions, lower-case.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImageExt reports whether ext (with leading dot, any case) is a recognised image extension.
func IsImageExt(ext string) bool {
	return imageExts[strings.ToLower(ext)]
}

// IsImageFile reports whether the file name has a recognised image extension.
func IsImageFile(name string) bool {
	return IsImageExt(filepath.Ext(name))
}

// Key is the identity extracted from a frame file name.
type Key struct {
	Group string // Token plus camera number, e.g. "pano_camera0"
	Order int    // Frame index, e.g. 1 for "00001"
	Width int    // Number of digits in the frame index as written
}

// Name formats the key back into "<group>_frame_<index><ext>", zero-padding
// the index to its original width.
func (k Key) Name(ext string) string {
	return fmt.Sprintf("%s_frame_%0*d%s", k.Group, k.Width, k.Order, ext)
}

// Parser extracts Keys from file names.
type Parser struct {
	token string
	re    *regexp.Regexp
}

// New creates a Parser for the given group token. An empty token selects
// DefaultGroupToken.
func New(token string) *Parser {
	if token == "" {
		token = DefaultGroupToken
	}
	return &Parser{
		token: token,
		re:    regexp.MustCompile("(" + regexp.QuoteMeta(token) + `\d+)_frame_(\d+)`),
	}
}

// Token returns the literal group token.
func (p *Parser) Token() string {
	return p.token
}

// Parse extracts the key from a file name or path. Only the base name is
// inspected. ok is false when the name does not contain the pattern or the
// frame index does not fit in an int.
func (p *Parser) Parse(name string) (key Key, ok bool) {
	m := p.re.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return Key{}, false
	}

	order, err := strconv.Atoi(m[2])
	if err != nil {
		return Key{}, false
	}

	return Key{Group: m[1], Order: order, Width: len(m[2])}, true
}
