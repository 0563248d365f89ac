package compose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts holds the parsed regular and bold typefaces. A Fonts value is safe
// to share; faces are created per layout.
type Fonts struct {
	Regular *opentype.Font
	Bold    *opentype.Font
	// Family names the source of the regular face, for diagnostics.
	Family string
}

// systemFontDirs are searched for a Hangul-capable face when no font path is
// configured.
var systemFontDirs = []string{
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/Library/Fonts",
	"/System/Library/Fonts",
	`C:\Windows\Fonts`,
}

// hangulFontNames are file name prefixes of common Hangul fonts, in
// preference order.
var hangulFontNames = []string{
	"NotoSansKR", "NotoSansCJKkr", "NotoSansCJK", "NanumGothic",
	"AppleSDGothicNeo", "malgun", "UnDotum", "Baekmuk",
}

var (
	goFontsOnce sync.Once
	goFonts     *Fonts
	goFontsErr  error
)

// GoFonts returns the bundled Go fonts. They cover Latin, Greek and math
// symbols but not Hangul.
func GoFonts() (*Fonts, error) {
	goFontsOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			goFontsErr = fmt.Errorf("parse goregular: %w", err)
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			goFontsErr = fmt.Errorf("parse gobold: %w", err)
			return
		}
		goFonts = &Fonts{Regular: regular, Bold: bold, Family: "Go"}
	})
	return goFonts, goFontsErr
}

// LoadFonts loads the configured faces. An empty regular path triggers a
// search of the system font directories; when nothing is found the Go fonts
// are used. A missing bold path reuses the regular face.
func LoadFonts(regularPath, boldPath string) (*Fonts, error) {
	if regularPath == "" {
		regularPath = findSystemFont()
	}
	if regularPath == "" {
		return GoFonts()
	}

	regular, err := parseFontFile(regularPath)
	if err != nil {
		return nil, err
	}
	bold := regular
	if boldPath != "" {
		if bold, err = parseFontFile(boldPath); err != nil {
			return nil, err
		}
	}
	family := strings.TrimSuffix(filepath.Base(regularPath), filepath.Ext(regularPath))
	return &Fonts{Regular: regular, Bold: bold, Family: family}, nil
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttc", ".otc":
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, fmt.Errorf("parse font collection %s: %w", path, err)
		}
		f, err := coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("font collection %s: %w", path, err)
		}
		return f, nil
	default:
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", path, err)
		}
		return f, nil
	}
}

// findSystemFont returns the first Hangul font found, or "".
func findSystemFont() string {
	var found []string
	for _, dir := range systemFontDirs {
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".ttf", ".otf", ".ttc", ".otc":
				found = append(found, path)
			}
			return nil
		})
	}
	for _, name := range hangulFontNames {
		for _, path := range found {
			base := filepath.Base(path)
			if strings.HasPrefix(base, name) && !strings.Contains(base, "Bold") {
				return path
			}
		}
	}
	return ""
}

type faceKey struct {
	size float64
	bold bool
}

// faceCache creates faces on demand. opentype faces keep per-face scratch
// buffers, so a cache belongs to a single layout and paint.
type faceCache struct {
	fonts *Fonts
	faces map[faceKey]font.Face
}

func newFaceCache(f *Fonts) *faceCache {
	return &faceCache{fonts: f, faces: make(map[faceKey]font.Face)}
}

// face returns the face for a device-pixel size.
func (c *faceCache) face(size float64, bold bool) font.Face {
	k := faceKey{size: size, bold: bold}
	if f, ok := c.faces[k]; ok {
		return f
	}
	src := c.fonts.Regular
	if bold && c.fonts.Bold != nil {
		src = c.fonts.Bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	c.faces[k] = f
	return f
}

func (c *faceCache) close() {
	for k, f := range c.faces {
		_ = f.Close()
		delete(c.faces, k)
	}
}
